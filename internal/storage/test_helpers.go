package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// TestDataFactory crea datos de prueba sobre un Storage ya migrado.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory crea la fábrica de datos de prueba.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateEvento inserta un evento con fecha explícita y devuelve su ID.
func (f *TestDataFactory) CreateEvento(t *testing.T, nombre, usuarioEmail string, createdAt time.Time) string {
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO eventos (id, nombre, usuario_email, params, created_at)
		VALUES ($1, $2, $3, '{}', $4)`,
		id, nombre, usuarioEmail, createdAt)
	require.NoError(t, err)
	return id
}

// GetTestEvento devuelve un evento estándar listo para SaveEvento.
func GetTestEvento(nombre string) models.Evento {
	return models.Evento{
		ID:           uuid.New().String(),
		Nombre:       nombre,
		UsuarioEmail: "ana@frutosdecopan.hn",
		Params:       map[string]string{"tipo": "Pedidos"},
		CreatedAt:    time.Now().UTC(),
	}
}
