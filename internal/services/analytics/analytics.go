// Package analytics registra los eventos de uso del sistema (login,
// solicitudes creadas, exportaciones) y arma el resumen que consume el
// panel de administración.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// ErrNombreRequerido indica un evento sin nombre.
var ErrNombreRequerido = errors.New("se requiere el nombre del evento")

// Store es la persistencia de eventos que usa el servicio.
type Store interface {
	SaveEvento(ctx context.Context, evento models.Evento) error
	ListResumen(ctx context.Context) ([]models.EventoResumen, error)
	ListRecientes(ctx context.Context, limit int) ([]models.Evento, error)
}

// Service implementa el registro y consulta de eventos.
type Service struct {
	store Store
	log   *slog.Logger
}

// New crea el servicio de analítica.
func New(store Store, log *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
	}
}

// Registrar guarda un evento con ID y marca de tiempo asignados por el
// servidor y devuelve el evento persistido.
func (s *Service) Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error) {
	const op = "analytics.Registrar"

	if nombre == "" {
		return nil, ErrNombreRequerido
	}

	evento := models.Evento{
		ID:           uuid.New().String(),
		Nombre:       nombre,
		UsuarioEmail: usuarioEmail,
		Params:       params,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.SaveEvento(ctx, evento); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("event recorded",
		slog.String("nombre", nombre),
		slog.String("usuario", usuarioEmail))
	return &evento, nil
}

// Resumen agrupa los eventos por nombre.
func (s *Service) Resumen(ctx context.Context) ([]models.EventoResumen, error) {
	const op = "analytics.Resumen"

	resumen, err := s.store.ListResumen(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resumen, nil
}

// Recientes lista los últimos eventos registrados. Un límite fuera de
// rango se ajusta al valor por defecto.
func (s *Service) Recientes(ctx context.Context, limit int) ([]models.Evento, error) {
	const op = "analytics.Recientes"

	if limit <= 0 || limit > 500 {
		limit = 50
	}
	eventos, err := s.store.ListRecientes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return eventos, nil
}
