// Package middlewarectx contiene los middleware HTTP del servicio:
// autenticación por JWT, control de nivel de acceso y límite de tasa.
//
// JWTMiddleware valida el token del encabezado Authorization y, en
// éxito, inyecta la identidad completa en el contexto del request para
// los handlers siguientes. Un token ausente o inválido corta con 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// Key es el tipo de las claves de contexto del request.
type Key string

// UsuarioKey es la clave bajo la que viaja la identidad autenticada.
const UsuarioKey Key = "usuario"

// Verifier valida un token de sesión y reconstruye la identidad.
type Verifier interface {
	Verify(tokenStr string) (*models.Usuario, error)
}

// UsuarioFromContext extrae la identidad autenticada del contexto.
func UsuarioFromContext(ctx context.Context) (models.Usuario, bool) {
	usuario, ok := ctx.Value(UsuarioKey).(models.Usuario)
	return usuario, ok
}

// JWTMiddleware valida el JWT del encabezado Authorization e inyecta
// la identidad en el contexto.
func JWTMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			usuario, err := verifier.Verify(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UsuarioKey, *usuario)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
