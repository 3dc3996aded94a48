// Package export implementa la exportación a CSV de las solicitudes,
// con las mismas columnas que exportaba el cliente original.
package export

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// Recorder registra eventos de analítica.
type Recorder interface {
	Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error)
}

// Handler atiende GET /solicitudes/export.
type Handler struct {
	log      *slog.Logger
	service  Service
	recorder Recorder
}

// New crea el handler.
func New(log *slog.Logger, service Service, recorder Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		recorder: recorder,
	}
}

// ServeHTTP godoc
// @Summary Exportar solicitudes a CSV
// @Description Descarga las solicitudes visibles en formato CSV con las columnas ID, Fecha, Usuario, Email, Ubicación, Tipo, Destino, Estado y Responsable.
// @Tags Solicitudes
// @Produce  text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV"
// @Failure 401 {object} response.ErrorResponse "Sin sesión"
// @Failure 403 {object} response.ErrorResponse "Solo admin"
// @Failure 502 {object} response.ErrorResponse "Backend remoto no disponible"
// @Router /solicitudes/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.solicitud.export"

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

	if _, err := h.recorder.Registrar(r.Context(), models.EventoExportacion, usuario.Correo,
		map[string]string{"registros": strconv.Itoa(len(solicitudes))}); err != nil {
		log.Warn("failed to record event", sl.Err(err))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="solicitudes.csv"`)
	if err := solicitud.ExportarCSV(w, solicitudes); err != nil {
		log.Error("failed to write csv", sl.Err(err))
		return
	}

	log.Info("solicitudes exported",
		slog.String("usuario", usuario.Correo),
		slog.Int("registros", len(solicitudes)))
}
