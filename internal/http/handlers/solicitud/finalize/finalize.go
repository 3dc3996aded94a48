// Package finalize implementa el cierre de una solicitud. El camino
// admin exige elegir un responsable disponible; el camino producción
// finaliza a nombre del propio actor.
package finalize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
)

// Request es el cuerpo del cierre; el responsable solo aplica al
// camino admin y el cuerpo completo es opcional en producción.
type Request struct {
	ResponsableID string `json:"responsable_id"`
}

// Service es la lógica de solicitudes que usa el handler.
type Service interface {
	Finalize(ctx context.Context, usuario models.Usuario, solicitudID, responsableID string) error
}

// Recorder registra eventos de analítica.
type Recorder interface {
	Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error)
}

// Handler atiende POST /solicitudes/{id}/finalize.
type Handler struct {
	log      *slog.Logger
	service  Service
	recorder Recorder
}

// New crea el handler.
func New(log *slog.Logger, service Service, recorder Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		recorder: recorder,
	}
}

// ServeHTTP godoc
// @Summary Finalizar una solicitud
// @Description Cierra una solicitud activa. Un admin debe indicar responsable_id; producción finaliza a su propio nombre sin cruce de disponibilidad.
// @Tags Solicitudes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id      path string  true  "ID de la solicitud"
// @Param request body Request false "Responsable elegido (solo admin)"
// @Success 200 {object} response.Response "Solicitud finalizada"
// @Failure 400 {object} response.ErrorResponse "Falta el responsable"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "Ya finalizada o responsable no disponible"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes/{id}/finalize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.finalize"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	usuario, ok := middlewarectx.UsuarioFromContext(r.Context())
	if !ok {
		log.Error("usuario not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	solicitudID := chi.URLParam(r, "id")
	if solicitudID == "" {
		log.Error("missing id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.Finalize(r.Context(), usuario, solicitudID, req.ResponsableID); err != nil {
		switch {
		case errors.Is(err, solicitud.ErrNoEncontrada):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, solicitud.ErrYaFinalizada), errors.Is(err, solicitud.ErrResponsableNoDisponible):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, solicitud.ErrResponsableRequerido), errors.Is(err, solicitud.ErrResponsableNoEncontrado):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to finalize solicitud", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("no se pudo finalizar la solicitud"))
		}
		return
	}

	if _, err := h.recorder.Registrar(r.Context(), models.EventoSolicitudFinalizada, usuario.Correo,
		map[string]string{"solicitud_id": solicitudID}); err != nil {
		log.Warn("failed to record event", sl.Err(err))
	}

	log.Info("solicitud finalized", slog.String("id", solicitudID))
	render.JSON(w, r, response.OK())
}
