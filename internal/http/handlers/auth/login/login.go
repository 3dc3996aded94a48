// Package login implementa el handler de autenticación. Decodifica y
// valida las credenciales, delega la verificación al servicio de
// sesión y, en éxito, devuelve el token y la identidad, registrando el
// evento de analítica correspondiente.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/session"
)

// Request son las credenciales del login.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service es la lógica de sesión que usa el handler.
type Service interface {
	Login(ctx context.Context, email, password string) (*session.Sesion, error)
}

// Recorder registra eventos de analítica; un fallo de registro nunca
// afecta la respuesta.
type Recorder interface {
	Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error)
}

// Handler atiende POST /login.
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
// @Summary Iniciar sesión
// @Description Verifica las credenciales contra el backend remoto y devuelve el token de sesión con la identidad.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Credenciales del usuario"
// @Success 200 {object} map[string]any "Sesión iniciada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Credenciales incorrectas"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	sesion, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrCredenciales) {
			log.Info("login rejected", slog.String("email", req.Email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(session.ErrCredenciales.Error()))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudo verificar las credenciales"))
		return
	}

	if _, err := h.recorder.Registrar(r.Context(), models.EventoLogin, sesion.Usuario.Correo,
		map[string]string{"nivel": strconv.Itoa(sesion.Usuario.Nivel)}); err != nil {
		log.Warn("failed to record login event", sl.Err(err))
	}

	log.Info("login success", slog.String("email", sesion.Usuario.Correo))
	render.JSON(w, r, response.OKWithData(sesion))
}
