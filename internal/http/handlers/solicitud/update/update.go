// Package update implementa la edición de una solicitud existente.
// Solo el creador puede editar y solo mientras la solicitud siga
// activa.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
)

// Request es el formulario de edición, mismo cuerpo que la creación.
type Request struct {
	Fecha       string         `json:"fecha" validate:"required"`
	Tipo        string         `json:"tipo" validate:"required"`
	Ubicacion   string         `json:"ubicacion" validate:"required"`
	Productos   map[string]int `json:"productos" validate:"required"`
	Comentarios string         `json:"comentarios"`
}

// Service es la lógica de solicitudes que usa el handler.
type Service interface {
	Update(ctx context.Context, usuario models.Usuario, solicitudID string, form solicitud.Form) error
}

// Recorder registra eventos de analítica.
type Recorder interface {
	Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error)
}

// Handler atiende PUT /solicitudes/{id}.
type Handler struct {
	log      *slog.Logger
	service  Service
	recorder Recorder
	validate *validator.Validate
}

// New crea el handler.
func New(log *slog.Logger, service Service, recorder Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		recorder: recorder,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Editar una solicitud
// @Description Edita una solicitud activa. Solo el creador puede editarla.
// @Tags Solicitudes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id      path string  true "ID de la solicitud"
// @Param request body Request true "Formulario actualizado"
// @Success 200 {object} response.Response "Solicitud actualizada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido o formulario incompleto"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "No es el creador"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "Ya finalizada"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.update"

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

	form := solicitud.Form{
		Fecha:       req.Fecha,
		Tipo:        req.Tipo,
		Ubicacion:   req.Ubicacion,
		Productos:   req.Productos,
		Comentarios: req.Comentarios,
	}
	if err := h.service.Update(r.Context(), usuario, solicitudID, form); err != nil {
		switch {
		case errors.Is(err, solicitud.ErrNoEncontrada):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, solicitud.ErrYaFinalizada):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, solicitud.ErrNoPropietario):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, solicitud.ErrSinProductos), errors.Is(err, solicitud.ErrFechaInvalida):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to update solicitud", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("no se pudo actualizar la solicitud"))
		}
		return
	}

	if _, err := h.recorder.Registrar(r.Context(), models.EventoSolicitudEditada, usuario.Correo,
		map[string]string{"solicitud_id": solicitudID}); err != nil {
		log.Warn("failed to record event", sl.Err(err))
	}

	log.Info("solicitud updated", slog.String("id", solicitudID))
	render.JSON(w, r, response.OK())
}
