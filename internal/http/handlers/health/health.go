// Package health implementa el chequeo de salud del servicio.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/frutosdecopan/pulpa-backend/internal/http/response"
)

// New devuelve el handler de GET /health.
//
// @Summary Chequeo de salud
// @Description Responde OK mientras el proceso esté vivo.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Servicio vivo"
// @Router /health [get]
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OKWithData(map[string]string{"status": "alive"}))
	}
}
