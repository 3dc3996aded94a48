// Package get implementa la lectura del mapa completo de
// disponibilidad: usuario → fechas no disponibles.
package get

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

// Service es la lógica de disponibilidad que usa el handler.
type Service interface {
	Get(ctx context.Context) (models.Disponibilidad, error)
}

// Handler atiende GET /disponibilidad.
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
// @Summary Consultar disponibilidad
// @Description Devuelve el mapa completo usuario → fechas no disponibles.
// @Tags Disponibilidad
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Mapa de disponibilidad"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Solo admin"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /disponibilidad [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.disponibilidad.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	disponibilidad, err := h.service.Get(r.Context())
	if err != nil {
		log.Error("failed to get disponibilidad", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo cargar la disponibilidad"))
		return
	}

	render.JSON(w, r, response.OKWithData(disponibilidad))
}
