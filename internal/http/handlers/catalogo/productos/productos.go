// Package productos implementa el listado del catálogo de productos
// activos.
package productos

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// Service es la lógica de catálogo que usa el handler.
type Service interface {
	Productos(ctx context.Context) ([]models.Producto, error)
}

// Handler atiende GET /productos.
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
// @Summary Listar productos activos
// @Description Devuelve los productos activos del catálogo.
// @Tags Catalogo
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Productos activos"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /productos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalogo.productos"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productos, err := h.service.Productos(r.Context())
	if err != nil {
		log.Error("failed to list productos", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("no se pudieron cargar los productos"))
		return
	}

	activos := models.ProductosActivos(productos)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"productos": activos,
		"total":     len(activos),
	}))
}
