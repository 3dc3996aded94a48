// Package summary implementa el resumen de eventos de analítica para
// el panel de administración: conteo de eventos por nombre.
package summary

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

// Service es la lógica de analítica que usa el handler.
type Service interface {
	Resumen(ctx context.Context) ([]models.EventoResumen, error)
}

// Handler atiende GET /events/summary.
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
// @Summary Resumen de eventos
// @Description Devuelve el conteo de eventos de analítica por nombre, del más frecuente al menos frecuente.
// @Tags Eventos
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Conteos por nombre"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Solo admin"
// @Failure 500 {object} response.ErrorResponse "Error al consultar"
// @Router /events/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.evento.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	resumen, err := h.service.Resumen(r.Context())
	if err != nil {
		log.Error("failed to summarize events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo consultar el resumen"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"eventos": resumen,
		"total":   len(resumen),
	}))
}
