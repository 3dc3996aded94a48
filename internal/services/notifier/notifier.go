// Package notifier sondea periódicamente la vista completa de
// solicitudes y avisa por el broker cuando aparecen registros nuevos.
// El sondeo va siempre directo al remoto, nunca al cache: un cache
// fresco ocultaría justamente lo que se busca detectar.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/frutosdecopan/pulpa-backend/internal/cache"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// RoutingKeyNuevas es la routing key de los avisos de solicitudes
// nuevas dentro del exchange de notificaciones.
const RoutingKeyNuevas = "solicitudes.new"

var (
	pollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulpa_notifier_polls_total",
		Help: "Sondeos completados contra el backend remoto.",
	})
	pollErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulpa_notifier_poll_errors_total",
		Help: "Sondeos fallidos contra el backend remoto.",
	})
	nuevasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulpa_notifier_solicitudes_nuevas_total",
		Help: "Solicitudes nuevas detectadas por el sondeador.",
	})
)

// Gateway es el subconjunto del cliente remoto que usa el sondeador.
type Gateway interface {
	GetSolicitudes(ctx context.Context, userEmail string) ([]models.Solicitud, error)
}

// Publisher publica los avisos hacia el broker.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Cache es lo mínimo que el sondeador necesita del cache: descartar
// la vista completa cuando detecta registros nuevos.
type Cache interface {
	Invalidate(key string) error
}

// Aviso es el mensaje que se publica al detectar solicitudes nuevas.
type Aviso struct {
	NuevasSolicitudes int       `json:"nuevas_solicitudes"`
	Total             int       `json:"total"`
	DetectadoEn       time.Time `json:"detectado_en"`
}

// Service implementa el sondeo periódico.
type Service struct {
	gw       Gateway
	pub      Publisher
	cache    Cache
	interval time.Duration
	log      *slog.Logger

	// visto distingue la primera observación: esa solo fija la línea
	// base y nunca genera aviso, sin importar cuántos registros traiga.
	visto       bool
	ultimoTotal int
}

// New crea el sondeador. interval es el período entre sondeos.
func New(gw Gateway, pub Publisher, c Cache, interval time.Duration, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		pub:      pub,
		cache:    c,
		interval: interval,
		log:      log,
	}
}

// Run ejecuta el sondeo hasta que el contexto se cancele. El primer
// sondeo corre de inmediato, los siguientes cada interval.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("notifier started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("notifier stopped")
			return
		case <-ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll ejecuta una pasada del sondeo: pide la vista completa, compara
// contra el total anterior y publica un aviso si el conteo creció. Un
// fallo remoto deja la línea base intacta; no cuenta como observación.
func (s *Service) Poll(ctx context.Context) {
	solicitudes, err := s.gw.GetSolicitudes(ctx, "admin")
	if err != nil {
		pollErrorsTotal.Inc()
		s.log.Warn("poll failed", sl.Err(err))
		return
	}
	pollsTotal.Inc()

	total := len(solicitudes)
	defer func() {
		s.ultimoTotal = total
		s.visto = true
	}()

	if !s.visto || total <= s.ultimoTotal {
		return
	}

	nuevas := total - s.ultimoTotal
	nuevasTotal.Add(float64(nuevas))
	s.log.Info("new solicitudes detected",
		slog.Int("nuevas", nuevas),
		slog.Int("total", total))

	if err := s.cache.Invalidate(cache.KeySolicitudes); err != nil {
		s.log.Warn("failed to invalidate solicitudes cache", sl.Err(err))
	}
	if err := s.pub.Publish(RoutingKeyNuevas, Aviso{
		NuevasSolicitudes: nuevas,
		Total:             total,
		DetectadoEn:       time.Now().UTC(),
	}); err != nil {
		s.log.Error("failed to publish aviso", sl.Err(err))
	}
}
