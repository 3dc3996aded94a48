package draft

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/prefs"
)

// MockService implementa draft.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SaveBorrador(email string, borrador prefs.Borrador) error {
	args := m.Called(email, borrador)
	return args.Error(0)
}

func (m *MockService) Borrador(email string) (*prefs.Borrador, bool, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*prefs.Borrador), args.Bool(1), args.Error(2)
}

func (m *MockService) DeleteBorrador(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func newRequest(method, url string, body []byte, usuario *models.Usuario) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
	if usuario != nil {
		ctx = context.WithValue(ctx, middlewarectx.UsuarioKey, *usuario)
	}
	return req.WithContext(ctx)
}

func TestDraftHandlers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ana := models.Usuario{ID: "USR-002", Correo: "ana@frutosdecopan.hn", Nombre: "Ana", Nivel: models.NivelSolicitante}

	t.Run("guardar y devolver el borrador", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("SaveBorrador", "ana@frutosdecopan.hn", mock.AnythingOfType("prefs.Borrador")).
			Return(nil)
		handler := New(logger, mockService)

		body := []byte(`{"fecha":"2024-03-15","tipo":"Pedidos","productos":{"Mangos":5}}`)
		w := httptest.NewRecorder()
		handler.Save(w, newRequest(http.MethodPut, "/api/v1/draft", body, &ana))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("restaurar un borrador existente", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Borrador", "ana@frutosdecopan.hn").
			Return(&prefs.Borrador{Tipo: "Pedidos"}, true, nil)
		handler := New(logger, mockService)

		w := httptest.NewRecorder()
		handler.Get(w, newRequest(http.MethodGet, "/api/v1/draft", nil, &ana))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tipo":"Pedidos"`)
	})

	t.Run("sin borrador guardado", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Borrador", "ana@frutosdecopan.hn").
			Return(nil, false, nil)
		handler := New(logger, mockService)

		w := httptest.NewRecorder()
		handler.Get(w, newRequest(http.MethodGet, "/api/v1/draft", nil, &ana))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), `"data"`)
	})

	t.Run("descartar el borrador", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("DeleteBorrador", "ana@frutosdecopan.hn").Return(nil)
		handler := New(logger, mockService)

		w := httptest.NewRecorder()
		handler.Remove(w, newRequest(http.MethodDelete, "/api/v1/draft", nil, &ana))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("sin sesión", func(t *testing.T) {
		handler := New(logger, new(MockService))

		w := httptest.NewRecorder()
		handler.Get(w, newRequest(http.MethodGet, "/api/v1/draft", nil, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
