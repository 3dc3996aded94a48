package analytics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/analytics"
)

type fakeStore struct {
	guardados []models.Evento
	saveErr   error
	lastLimit int
}

func (f *fakeStore) SaveEvento(_ context.Context, evento models.Evento) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.guardados = append(f.guardados, evento)
	return nil
}

func (f *fakeStore) ListResumen(_ context.Context) ([]models.EventoResumen, error) {
	resumen := make(map[string]int)
	for _, e := range f.guardados {
		resumen[e.Nombre]++
	}
	result := make([]models.EventoResumen, 0, len(resumen))
	for nombre, total := range resumen {
		result = append(result, models.EventoResumen{Nombre: nombre, Total: total})
	}
	return result, nil
}

func (f *fakeStore) ListRecientes(_ context.Context, limit int) ([]models.Evento, error) {
	f.lastLimit = limit
	if limit > len(f.guardados) {
		limit = len(f.guardados)
	}
	return f.guardados[:limit], nil
}

func newService(store *fakeStore) *analytics.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return analytics.New(store, log)
}

func TestRegistrarAsignaIDYFecha(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	evento, err := svc.Registrar(context.Background(), models.EventoLogin,
		"ana@frutosdecopan.hn", map[string]string{"nivel": "1"})
	require.NoError(t, err)

	_, err = uuid.Parse(evento.ID)
	require.NoError(t, err, "el ID debe ser un UUID válido")
	assert.False(t, evento.CreatedAt.IsZero())
	require.Len(t, store.guardados, 1)
	assert.Equal(t, models.EventoLogin, store.guardados[0].Nombre)
}

func TestRegistrarRechazaNombreVacio(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	_, err := svc.Registrar(context.Background(), "", "ana@frutosdecopan.hn", nil)
	require.ErrorIs(t, err, analytics.ErrNombreRequerido)
	assert.Empty(t, store.guardados)
}

func TestRegistrarPropagaFalloDeStore(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("connection refused")}
	svc := newService(store)

	_, err := svc.Registrar(context.Background(), models.EventoBusqueda, "ana@frutosdecopan.hn", nil)
	require.Error(t, err)
}

func TestResumen(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	for range 3 {
		_, err := svc.Registrar(context.Background(), models.EventoVistaDePagina, "ana@frutosdecopan.hn", nil)
		require.NoError(t, err)
	}

	resumen, err := svc.Resumen(context.Background())
	require.NoError(t, err)
	require.Len(t, resumen, 1)
	assert.Equal(t, 3, resumen[0].Total)
}

func TestRecientesAjustaLimite(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	_, err := svc.Recientes(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)

	_, err = svc.Recientes(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)

	_, err = svc.Recientes(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, store.lastLimit)
}
