// Package usuarios implementa el listado de personas asignables como
// responsable de una solicitud.
package usuarios

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// Service es la lógica de catálogo que usa el handler.
type Service interface {
	Usuarios(ctx context.Context) ([]models.UsuarioDisponible, error)
}

// Handler atiende GET /usuarios.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New crea el handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Listar usuarios disponibles
// @Description Devuelve las personas asignables como responsable al finalizar una solicitud.
// @Tags Catalogo
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Usuarios disponibles"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Solo admin"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /usuarios [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalogo.usuarios"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	usuarios, err := h.service.Usuarios(r.Context())
	if err != nil {
		log.Error("failed to list usuarios", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudieron cargar los usuarios"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"usuarios": usuarios,
		"total":    len(usuarios),
	}))
}
