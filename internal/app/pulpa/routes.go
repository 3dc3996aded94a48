package pulpa

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/auth/login"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/catalogo/productos"
	catalogousuarios "github.com/frutosdecopan/pulpa-backend/internal/http/handlers/catalogo/usuarios"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/data/load"
	disponibilidadget "github.com/frutosdecopan/pulpa-backend/internal/http/handlers/disponibilidad/get"
	disponibilidadset "github.com/frutosdecopan/pulpa-backend/internal/http/handlers/disponibilidad/set"
	eventosummary "github.com/frutosdecopan/pulpa-backend/internal/http/handlers/evento/summary"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/evento/track"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/health"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/prefs/darkmode"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/prefs/draft"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/create"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/export"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/finalize"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/list"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/produccion"
	solicitudsummary "github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/summary"
	"github.com/frutosdecopan/pulpa-backend/internal/http/handlers/solicitud/update"
	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	analyticsservice "github.com/frutosdecopan/pulpa-backend/internal/services/analytics"
	disponibilidadservice "github.com/frutosdecopan/pulpa-backend/internal/services/disponibilidad"
	prefsservice "github.com/frutosdecopan/pulpa-backend/internal/services/prefs"
	sessionservice "github.com/frutosdecopan/pulpa-backend/internal/services/session"
	solicitudservice "github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
)

// RegisterRoutes registra todas las rutas del servicio.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	sessionService *sessionservice.Service,
	solicitudService *solicitudservice.Service,
	disponibilidadService *disponibilidadservice.Service,
	analyticsService *analyticsservice.Service,
	prefsService *prefsservice.Service,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	soloAdmin := middlewarectx.RequireNivel(logger, models.NivelAdmin)
	adminOProduccion := middlewarectx.RequireNivel(logger, models.NivelAdmin, models.NivelProduccion)

	r.Route("/api/v1", func(r chi.Router) {
		// Conexión abierta, sin token
		r.Post("/login", login.New(logger, sessionService, analyticsService).ServeHTTP)

		// Grupo con autenticación JWT
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(sessionService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(10), 20))

			r.Get("/data", load.New(logger, solicitudService).ServeHTTP)

			r.Get("/solicitudes", list.New(logger, solicitudService).ServeHTTP)
			r.Post("/solicitudes", create.New(logger, solicitudService, analyticsService).ServeHTTP)
			r.Put("/solicitudes/{id}", update.New(logger, solicitudService, analyticsService).ServeHTTP)
			r.With(adminOProduccion).Post("/solicitudes/{id}/finalize", finalize.New(logger, solicitudService, analyticsService).ServeHTTP)
			r.With(adminOProduccion).Get("/solicitudes/produccion", produccion.New(logger, solicitudService).ServeHTTP)
			r.With(soloAdmin).Get("/solicitudes/summary", solicitudsummary.New(logger, solicitudService).ServeHTTP)
			r.With(soloAdmin).Get("/solicitudes/export", export.New(logger, solicitudService, analyticsService).ServeHTTP)

			r.Get("/productos", productos.New(logger, solicitudService).ServeHTTP)
			r.With(soloAdmin).Get("/usuarios", catalogousuarios.New(logger, solicitudService).ServeHTTP)

			r.With(soloAdmin).Get("/disponibilidad", disponibilidadget.New(logger, disponibilidadService).ServeHTTP)
			r.With(soloAdmin).Put("/disponibilidad/{userId}", disponibilidadset.New(logger, disponibilidadService).ServeHTTP)

			draftHandler := draft.New(logger, prefsService)
			r.Get("/draft", draftHandler.Get)
			r.Put("/draft", draftHandler.Save)
			r.Delete("/draft", draftHandler.Remove)

			darkmodeHandler := darkmode.New(logger, prefsService)
			r.Get("/preferences/darkmode", darkmodeHandler.Get)
			r.Put("/preferences/darkmode", darkmodeHandler.Set)

			r.Post("/events", track.New(logger, analyticsService).ServeHTTP)
			r.With(soloAdmin).Get("/events/summary", eventosummary.New(logger, analyticsService).ServeHTTP)
		})
	})

	r.Get("/health", health.New())
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
