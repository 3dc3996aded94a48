// Package produccion implementa la vista de producción: solo
// solicitudes de tipo Pedidos, con filtros de estado, solicitante y
// búsqueda libre.
package produccion

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
}

// Handler atiende GET /solicitudes/produccion.
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
// @Summary Vista de producción
// @Description Lista las solicitudes de tipo Pedidos con filtros de estado, solicitante y búsqueda libre.
// @Tags Solicitudes
// @Produce  json
// @Security BearerAuth
// @Param estado  query string false "all | active | finalized"
// @Param usuario query string false "Nombre exacto del solicitante"
// @Param q       query string false "Búsqueda libre"
// @Success 200 {object} map[string]any "Pedidos filtrados"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Nivel insuficiente"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes/produccion [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.produccion"

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

	query := r.URL.Query()
	filtro := solicitud.FiltroProduccion{
		Estado:  query.Get("estado"),
		Usuario: query.Get("usuario"),
		Texto:   query.Get("q"),
	}
	pedidos := solicitud.FiltrarProduccion(solicitudes, filtro)

	render.JSON(w, r, response.OKWithData(map[string]any{
		"solicitudes": pedidos,
		"total":       len(pedidos),
	}))
}
