// Package create implementa el handler de creación de solicitudes.
// Decodifica y valida el formulario, delega en la lógica de negocio y
// registra el evento de analítica.
package create

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
	"github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
)

// Request es el formulario de una solicitud nueva.
type Request struct {
	Fecha       string         `json:"fecha" validate:"required"`
	Tipo        string         `json:"tipo" validate:"required"`
	Ubicacion   string         `json:"ubicacion" validate:"required"`
	Productos   map[string]int `json:"productos" validate:"required"`
	Comentarios string         `json:"comentarios"`
}

// Service es la lógica de solicitudes que usa el handler.
type Service interface {
	Create(ctx context.Context, usuario models.Usuario, form solicitud.Form) error
}

// Recorder registra eventos de analítica.
type Recorder interface {
	Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error)
}

// Handler atiende POST /solicitudes.
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
// @Summary Crear una solicitud
// @Description Crea una solicitud nueva a nombre de la identidad autenticada. Requiere al menos un producto con cantidad mayor a cero.
// @Tags Solicitudes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Formulario de la solicitud"
// @Success 200 {object} response.Response "Solicitud creada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido o formulario incompleto"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.create"

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

	form := solicitud.Form{
		Fecha:       req.Fecha,
		Tipo:        req.Tipo,
		Ubicacion:   req.Ubicacion,
		Productos:   req.Productos,
		Comentarios: req.Comentarios,
	}
	if err := h.service.Create(r.Context(), usuario, form); err != nil {
		switch {
		case errors.Is(err, solicitud.ErrSinProductos), errors.Is(err, solicitud.ErrFechaInvalida):
			log.Info("create rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to create solicitud", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("no se pudo crear la solicitud"))
		}
		return
	}

	if _, err := h.recorder.Registrar(r.Context(), models.EventoSolicitudCreada, usuario.Correo,
		map[string]string{"tipo": req.Tipo}); err != nil {
		log.Warn("failed to record event", sl.Err(err))
	}

	log.Info("solicitud created", slog.String("usuario", usuario.Correo))
	render.JSON(w, r, response.OK())
}
