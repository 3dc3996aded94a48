// Package darkmode implementa la preferencia de modo oscuro del
// usuario autenticado.
package darkmode

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
)

// Request es la preferencia a guardar.
type Request struct {
	Enabled bool `json:"enabled"`
}

// Service es la lógica de preferencias que usa el handler.
type Service interface {
	SetDarkMode(email string, enabled bool) error
	DarkMode(email string) (bool, error)
}

// Handler atiende GET y PUT de /preferences/darkmode.
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

// Get godoc
// @Summary Consultar el modo oscuro
// @Description Devuelve la preferencia de modo oscuro del usuario; sin preferencia guardada el modo es claro.
// @Tags Preferencias
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Preferencia"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Router /preferences/darkmode [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prefs.darkmode.get"

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

	enabled, err := h.service.DarkMode(usuario.Correo)
	if err != nil {
		log.Error("failed to read preference", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo leer la preferencia"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]bool{"enabled": enabled}))
}

// Set godoc
// @Summary Guardar el modo oscuro
// @Description Guarda la preferencia de modo oscuro del usuario.
// @Tags Preferencias
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Preferencia"
// @Success 200 {object} response.Response "Preferencia guardada"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Router /preferences/darkmode [put]
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prefs.darkmode.set"

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

	if err := h.service.SetDarkMode(usuario.Correo, req.Enabled); err != nil {
		log.Error("failed to save preference", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo guardar la preferencia"))
		return
	}
	render.JSON(w, r, response.OK())
}
