package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

func TestRequireNivel(t *testing.T) {
	tests := []struct {
		name           string
		usuario        *models.Usuario
		niveles        []int
		expectedStatus int
	}{
		{
			name:           "admin en ruta de admin",
			usuario:        &models.Usuario{Correo: "ana@frutosdecopan.hn", Nivel: models.NivelAdmin},
			niveles:        []int{models.NivelAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "producción en ruta admin|producción",
			usuario:        &models.Usuario{Correo: "luis@frutosdecopan.hn", Nivel: models.NivelProduccion},
			niveles:        []int{models.NivelAdmin, models.NivelProduccion},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "solicitante en ruta de admin",
			usuario:        &models.Usuario{Correo: "eva@frutosdecopan.hn", Nivel: models.NivelSolicitante},
			niveles:        []int{models.NivelAdmin},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "sin identidad en el contexto",
			usuario:        nil,
			niveles:        []int{models.NivelAdmin},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/usuarios", nil)
			if tt.usuario != nil {
				req = req.WithContext(context.WithValue(req.Context(), UsuarioKey, *tt.usuario))
			}
			w := httptest.NewRecorder()

			RequireNivel(discardLogger(), tt.niveles...)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(discardLogger(), 1, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/data", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
