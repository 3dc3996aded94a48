package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/session"
	"github.com/frutosdecopan/pulpa-backend/internal/sheets"
)

// MockService implementa login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (*session.Sesion, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Sesion), args.Error(1)
}

// MockRecorder implementa login.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Registrar(ctx context.Context, nombre, usuarioEmail string, params map[string]string) (*models.Evento, error) {
	args := m.Called(ctx, nombre, usuarioEmail, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Evento), args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sesion := &session.Sesion{
		Token: "token-firmado",
		Usuario: models.Usuario{
			ID:     "USR-001",
			Correo: "ana@frutosdecopan.hn",
			Nombre: "Ana",
			Nivel:  models.NivelAdmin,
		},
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService, *MockRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "login exitoso",
			requestBody: Request{Email: "ana@frutosdecopan.hn", Password: "secreta"},
			setupMock: func(s *MockService, rec *MockRecorder) {
				s.On("Login", mock.Anything, "ana@frutosdecopan.hn", "secreta").
					Return(sesion, nil)
				rec.On("Registrar", mock.Anything, models.EventoLogin, "ana@frutosdecopan.hn", mock.Anything).
					Return(&models.Evento{ID: "evt-1"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"token-firmado"`,
		},
		{
			name:           "JSON inválido",
			requestBody:    "no es json",
			setupMock:      func(_ *MockService, _ *MockRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "correo mal formado",
			requestBody:    Request{Email: "no-es-correo", Password: "secreta"},
			setupMock:      func(_ *MockService, _ *MockRecorder) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name:        "credenciales rechazadas",
			requestBody: Request{Email: "ana@frutosdecopan.hn", Password: "mala"},
			setupMock: func(s *MockService, _ *MockRecorder) {
				s.On("Login", mock.Anything, "ana@frutosdecopan.hn", "mala").
					Return(nil, session.ErrCredenciales)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `correo o contraseña incorrectos`,
		},
		{
			name:        "backend remoto caído",
			requestBody: Request{Email: "ana@frutosdecopan.hn", Password: "secreta"},
			setupMock: func(s *MockService, _ *MockRecorder) {
				s.On("Login", mock.Anything, "ana@frutosdecopan.hn", "secreta").
					Return(nil, sheets.ErrNetwork)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `no se pudo verificar las credenciales`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockRecorder := new(MockRecorder)
			tt.setupMock(mockService, mockRecorder)

			handler := New(logger, mockService, mockRecorder)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
			mockRecorder.AssertExpectations(t)
		})
	}
}
