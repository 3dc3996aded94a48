// Package session autentica usuarios contra el backend remoto y emite
// los tokens de sesión que consumen los middlewares HTTP.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frutosdecopan/pulpa-backend/internal/lib/jwt"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/sheets"
)

// ErrCredenciales cubre tanto credenciales rechazadas por el backend
// remoto como respuestas sin identidad utilizable.
var ErrCredenciales = errors.New("correo o contraseña incorrectos")

// Gateway es el subconjunto del cliente remoto que usa el servicio.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*models.Usuario, error)
}

// Service emite sesiones firmadas tras verificar credenciales.
type Service struct {
	gw    Gateway
	maker jwt.Maker
	log   *slog.Logger
}

// New crea el servicio de sesión.
func New(gw Gateway, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		gw:    gw,
		maker: maker,
		log:   log,
	}
}

// Sesion es el resultado de un login: la identidad y su token.
type Sesion struct {
	Token   string         `json:"token"`
	Usuario models.Usuario `json:"usuario"`
}

// Login verifica las credenciales contra el backend remoto y, en
// éxito, firma un token con la identidad completa. Un rechazo remoto
// se traduce siempre a ErrCredenciales; los fallos de red se propagan
// tal cual para que el handler los distinga.
func (s *Service) Login(ctx context.Context, email, password string) (*Sesion, error) {
	const op = "session.Login"

	usuario, err := s.gw.Login(ctx, email, password)
	if err != nil {
		var remoteErr *sheets.RemoteError
		if errors.As(err, &remoteErr) {
			s.log.Info("login rejected", slog.String("email", email))
			return nil, ErrCredenciales
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if usuario == nil || usuario.ID == "" {
		return nil, ErrCredenciales
	}

	token, err := s.maker.GenerateToken(usuario.ID, usuario.Correo, usuario.Nombre, usuario.Nivel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("login ok",
		slog.String("email", usuario.Correo),
		slog.Int("nivel", usuario.Nivel))
	return &Sesion{Token: token, Usuario: *usuario}, nil
}

// Verify valida un token emitido por Login y reconstruye la identidad.
func (s *Service) Verify(tokenStr string) (*models.Usuario, error) {
	const op = "session.Verify"

	claims, err := s.maker.ParseToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Usuario{
		ID:     claims.UserID,
		Correo: claims.Email,
		Nombre: claims.Nombre,
		Nivel:  claims.Nivel,
	}, nil
}
