package finalize

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/frutosdecopan/pulpa-backend/internal/http/middlewarectx"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
)

// MockService implementa finalize.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Finalize(ctx context.Context, usuario models.Usuario, solicitudID, responsableID string) error {
	args := m.Called(ctx, usuario, solicitudID, responsableID)
	return args.Error(0)
}

// MockRecorder implementa finalize.Recorder
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

func TestFinalizeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin := models.Usuario{
		ID:     "USR-001",
		Correo: "carlos@frutosdecopan.hn",
		Nombre: "Carlos",
		Nivel:  models.NivelAdmin,
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService, *MockRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "finalización exitosa",
			requestBody: Request{ResponsableID: "USR-010"},
			setupMock: func(s *MockService, rec *MockRecorder) {
				s.On("Finalize", mock.Anything, admin, "SOL-001", "USR-010").
					Return(nil)
				rec.On("Registrar", mock.Anything, models.EventoSolicitudFinalizada, "carlos@frutosdecopan.hn", mock.Anything).
					Return(&models.Evento{ID: "evt-1"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:        "sin responsable",
			requestBody: Request{},
			setupMock: func(s *MockService, _ *MockRecorder) {
				s.On("Finalize", mock.Anything, admin, "SOL-001", "").
					Return(solicitud.ErrResponsableRequerido)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `se requiere seleccionar un responsable`,
		},
		{
			name:        "responsable no disponible en la fecha",
			requestBody: Request{ResponsableID: "USR-010"},
			setupMock: func(s *MockService, _ *MockRecorder) {
				s.On("Finalize", mock.Anything, admin, "SOL-001", "USR-010").
					Return(solicitud.ErrResponsableNoDisponible)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `no está disponible en la fecha`,
		},
		{
			name:        "ya finalizada",
			requestBody: Request{ResponsableID: "USR-010"},
			setupMock: func(s *MockService, _ *MockRecorder) {
				s.On("Finalize", mock.Anything, admin, "SOL-001", "USR-010").
					Return(solicitud.ErrYaFinalizada)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `ya fue finalizada`,
		},
		{
			name:        "no existe",
			requestBody: Request{ResponsableID: "USR-010"},
			setupMock: func(s *MockService, _ *MockRecorder) {
				s.On("Finalize", mock.Anything, admin, "SOL-001", "USR-010").
					Return(solicitud.ErrNoEncontrada)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `la solicitud no existe`,
		},
		{
			name:        "cuerpo vacío llega como responsable vacío",
			requestBody: "",
			setupMock: func(s *MockService, rec *MockRecorder) {
				s.On("Finalize", mock.Anything, admin, "SOL-001", "").
					Return(nil)
				rec.On("Registrar", mock.Anything, models.EventoSolicitudFinalizada, "carlos@frutosdecopan.hn", mock.Anything).
					Return(&models.Evento{ID: "evt-2"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
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

			req := httptest.NewRequest(http.MethodPost, "/api/v1/solicitudes/SOL-001/finalize", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			ctx = context.WithValue(ctx, middlewarectx.UsuarioKey, admin)
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "SOL-001")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
			mockRecorder.AssertExpectations(t)
		})
	}
}
