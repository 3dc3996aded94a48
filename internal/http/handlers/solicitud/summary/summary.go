// Package summary implementa los totales del panel de administración:
// solicitudes totales, activas, finalizadas y productos activos.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
)

// Service es la lógica de solicitudes que usa el handler.
type Service interface {
	Solicitudes(ctx context.Context, usuario models.Usuario) ([]models.Solicitud, error)
	Productos(ctx context.Context) ([]models.Producto, error)
}

// Handler atiende GET /solicitudes/summary.
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
// @Summary Totales del panel
// @Description Devuelve los totales del panel de administración: solicitudes totales, activas, finalizadas y productos activos.
// @Tags Solicitudes
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Totales"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Solo admin"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.summary"

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

	solicitudes, err := h.service.Solicitudes(r.Context(), usuario)
	if err != nil {
		log.Error("failed to list solicitudes", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudieron cargar las solicitudes"))
		return
	}
	productos, err := h.service.Productos(r.Context())
	if err != nil {
		log.Error("failed to list productos", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudieron cargar los productos"))
		return
	}

	render.JSON(w, r, response.OKWithData(solicitud.Resumir(solicitudes, productos)))
}
