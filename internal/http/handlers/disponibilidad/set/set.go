// Package set implementa el reemplazo completo del conjunto de fechas
// no disponibles de un usuario.
package set

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/services/disponibilidad"
)

// Request es el conjunto completo de fechas no disponibles.
type Request struct {
	Fechas []string `json:"fechas"`
}

// Service es la lógica de disponibilidad que usa el handler.
type Service interface {
	Set(ctx context.Context, usuarioID string, fechas []string) error
}

// Handler atiende PUT /disponibilidad/{userId}.
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
// @Summary Reemplazar disponibilidad de un usuario
// @Description Reemplaza por completo el conjunto de fechas no disponibles del usuario indicado. Fechas en formato 2006-01-02.
// @Tags Disponibilidad
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param userId  path string  true "ID del usuario"
// @Param request body Request true "Fechas no disponibles"
// @Success 200 {object} response.Response "Disponibilidad actualizada"
// @Failure 400 {object} response.ErrorResponse "Fecha inválida"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Solo admin"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /disponibilidad/{userId} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.disponibilidad.set"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	usuarioID := chi.URLParam(r, "userId")
	if usuarioID == "" {
		log.Error("missing userId in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode userId from url"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.Set(r.Context(), usuarioID, req.Fechas); err != nil {
		if errors.Is(err, disponibilidad.ErrFechaInvalida) {
			log.Info("set rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to set disponibilidad", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo actualizar la disponibilidad"))
		return
	}

	log.Info("disponibilidad updated", slog.String("usuario", usuarioID))
	render.JSON(w, r, response.OK())
}
