// Package draft implementa el borrador del formulario de solicitud:
// guardar, restaurar y descartar el formulario a medio completar del
// usuario autenticado.
package draft

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/services/prefs"
)

// Service es la lógica de borradores que usa el handler.
type Service interface {
	SaveBorrador(email string, borrador prefs.Borrador) error
	Borrador(email string) (*prefs.Borrador, bool, error)
	DeleteBorrador(email string) error
}

// Handler atiende GET, PUT y DELETE de /draft.
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
// @Summary Restaurar el borrador
// @Description Devuelve el borrador del formulario guardado por el usuario, si hay uno.
// @Tags Preferencias
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Borrador (o null si no hay)"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Router /draft [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prefs.draft.get"

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

	borrador, found, err := h.service.Borrador(usuario.Correo)
	if err != nil {
		log.Error("failed to read draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo leer el borrador"))
		return
	}
	if !found {
		render.JSON(w, r, response.OK())
		return
	}
	render.JSON(w, r, response.OKWithData(borrador))
}

// Save godoc
// @Summary Guardar el borrador
// @Description Guarda el formulario a medio completar del usuario, reemplazando el anterior.
// @Tags Preferencias
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body prefs.Borrador true "Borrador del formulario"
// @Success 200 {object} response.Response "Borrador guardado"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Router /draft [put]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prefs.draft.save"

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

	var borrador prefs.Borrador
	if err := json.NewDecoder(r.Body).Decode(&borrador); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.SaveBorrador(usuario.Correo, borrador); err != nil {
		log.Error("failed to save draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo guardar el borrador"))
		return
	}
	render.JSON(w, r, response.OK())
}

// Remove godoc
// @Summary Descartar el borrador
// @Description Elimina el borrador guardado del usuario.
// @Tags Preferencias
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Borrador descartado"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Router /draft [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prefs.draft.remove"

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

	if err := h.service.DeleteBorrador(usuario.Correo); err != nil {
		log.Error("failed to delete draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo descartar el borrador"))
		return
	}
	render.JSON(w, r, response.OK())
}
