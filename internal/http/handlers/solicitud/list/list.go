// Package list implementa el listado de solicitudes con los filtros de
// la vista general: estado, destino, fecha exacta y búsqueda libre.
package list

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

// Handler atiende GET /solicitudes.
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
// @Summary Listar solicitudes
// @Description Lista las solicitudes visibles para la identidad, con filtros opcionales por estado, destino, fecha y texto libre.
// @Tags Solicitudes
// @Produce  json
// @Security BearerAuth
// @Param estado  query string false "all | active | finalized"
// @Param destino query string false "Substring sobre comentarios"
// @Param fecha   query string false "Fecha exacta 2006-01-02"
// @Param q       query string false "Búsqueda libre"
// @Success 200 {object} map[string]any "Solicitudes filtradas"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.list"

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
	filtro := solicitud.Filtro{
		Estado:  query.Get("estado"),
		Destino: query.Get("destino"),
		Fecha:   query.Get("fecha"),
		Texto:   query.Get("q"),
	}
	visibles := solicitud.Filtrar(solicitud.VisiblesPara(usuario, solicitudes), filtro)

	render.JSON(w, r, response.OKWithData(map[string]any{
		"solicitudes": visibles,
		"total":       len(visibles),
	}))
}
