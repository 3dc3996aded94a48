package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
)

// RequireNivel corta con 403 cuando el nivel de la identidad
// autenticada no está entre los permitidos. Debe montarse después de
// JWTMiddleware.
func RequireNivel(log *slog.Logger, niveles ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireNivel"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			usuario, ok := UsuarioFromContext(r.Context())
			if !ok {
				log.Error("usuario not found in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !slices.Contains(niveles, usuario.Nivel) {
				log.Warn("access denied",
					slog.String("usuario", usuario.Correo),
					slog.Int("nivel", usuario.Nivel))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("nivel de acceso insuficiente"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
