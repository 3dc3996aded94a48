// Package track implementa el registro de eventos de analítica desde
// los clientes de UI.
package track

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/analytics"
)

// Request es el evento a registrar.
type Request struct {
	Nombre string            `json:"nombre" validate:"required"`
	Params map[string]string `json:"params"`
}

// Service es la lógica de analítica que usa el handler.
type Service interface {
	Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error)
}

// Handler atiende POST /events.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New crea el handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Registrar un evento de uso
// @Description Registra un evento de analítica (búsqueda, vista de página, uso de funcionalidad) a nombre del usuario autenticado.
// @Tags Eventos
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Evento"
// @Success 200 {object} map[string]any "Evento registrado"
// @Failure 400 {object} response.ErrorResponse "JSON inválido o sin nombre"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error al persistir"
// @Router /events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.evento.track"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	evento, err := h.service.Registrar(r.Context(), req.Nombre, usuario.Correo, req.Params)
	if err != nil {
		if errors.Is(err, analytics.ErrNombreRequerido) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to record event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo registrar el evento"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]string{"id": evento.ID}))
}
