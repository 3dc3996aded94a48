// Package disponibilidad gestiona el calendario de fechas no
// disponibles de cada responsable: lectura con cache y reemplazo
// completo del conjunto de fechas.
package disponibilidad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/frutosdecopan/pulpa-backend/internal/cache"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// ErrFechaInvalida indica una fecha fuera del formato 2006-01-02.
var ErrFechaInvalida = errors.New("fecha inválida, se espera formato 2006-01-02")

// Gateway es el subconjunto del cliente remoto que usa el servicio.
type Gateway interface {
	GetDisponibilidad(ctx context.Context) (models.Disponibilidad, error)
	SetDisponibilidad(ctx context.Context, userID string, unavailableDates []string) error
}

// Cache describe el cache de lectura con ventana de frescura.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implementa la gestión de disponibilidad.
type Service struct {
	gw    Gateway
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New crea el servicio.
func New(gw Gateway, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		gw:    gw,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Get devuelve el mapa completo usuario → fechas no disponibles,
// consultando primero el cache.
func (s *Service) Get(ctx context.Context) (models.Disponibilidad, error) {
	const op = "disponibilidad.Get"

	var disponibilidad models.Disponibilidad
	found, err := s.cache.Get(cache.KeyDisponibilidad, &disponibilidad)
	if err != nil {
		s.log.Warn("cache read failed, falling back to remote", sl.Err(err))
	}
	if found {
		return disponibilidad, nil
	}

	disponibilidad, err = s.gw.GetDisponibilidad(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(cache.KeyDisponibilidad, disponibilidad, s.ttl); err != nil {
		s.log.Warn("failed to cache disponibilidad", sl.Err(err))
	}
	return disponibilidad, nil
}

// DeUsuario devuelve solo las fechas no disponibles del usuario dado.
func (s *Service) DeUsuario(ctx context.Context, usuarioID string) ([]string, error) {
	disponibilidad, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	fechas := disponibilidad[usuarioID]
	if fechas == nil {
		fechas = []string{}
	}
	return fechas, nil
}

// Set reemplaza por completo el conjunto de fechas no disponibles del
// usuario. Las fechas se validan, deduplican y ordenan antes de
// enviarse; en éxito se invalida el cache para que la próxima lectura
// vea el cambio.
func (s *Service) Set(ctx context.Context, usuarioID string, fechas []string) error {
	const op = "disponibilidad.Set"

	depuradas, err := normalizarFechas(fechas)
	if err != nil {
		return err
	}

	if err := s.gw.SetDisponibilidad(ctx, usuarioID, depuradas); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("updated disponibilidad",
		slog.String("usuario", usuarioID),
		slog.Int("fechas", len(depuradas)))
	if err := s.cache.Invalidate(cache.KeyDisponibilidad); err != nil {
		s.log.Warn("failed to invalidate disponibilidad cache", sl.Err(err))
	}
	return nil
}

func normalizarFechas(fechas []string) ([]string, error) {
	vistas := make(map[string]struct{}, len(fechas))
	depuradas := make([]string, 0, len(fechas))
	for _, fecha := range fechas {
		if _, err := time.Parse("2006-01-02", fecha); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrFechaInvalida, fecha)
		}
		if _, ok := vistas[fecha]; ok {
			continue
		}
		vistas[fecha] = struct{}{}
		depuradas = append(depuradas, fecha)
	}
	sort.Strings(depuradas)
	return depuradas, nil
}
