// Package load implementa el handler de la carga completa: los cuatro
// datasets de referencia en una sola respuesta, con la vista de
// solicitudes recortada a lo que la identidad puede ver.
package load

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

// Service es la lógica de carga que usa el handler.
type Service interface {
	LoadData(ctx context.Context, usuario models.Usuario) (*solicitud.Snapshot, error)
}

// Handler atiende GET /data.
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
// @Summary Cargar los datos de la sesión
// @Description Devuelve solicitudes, productos, usuarios disponibles y disponibilidad en una sola carga. Todo o nada: si un dataset falla, la carga completa falla.
// @Tags Data
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Snapshot completo"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /data [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.data.load"

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

	snap, err := h.service.LoadData(r.Context(), usuario)
	if err != nil {
		log.Error("failed to load data", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudieron cargar los datos"))
		return
	}
	snap.Solicitudes = solicitud.VisiblesPara(usuario, snap.Solicitudes)

	log.Info("data loaded",
		slog.String("usuario", usuario.Correo),
		slog.Int("solicitudes", len(snap.Solicitudes)))
	render.JSON(w, r, response.OKWithData(snap))
}
