package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frutosdecopan/pulpa-backend/internal/config"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.Sheets{EndpointURL: srv.URL, Timeout: 5 * time.Second})
}

func TestGetSolicitudes(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "getSolicitudes", r.URL.Query().Get("action"))
		assert.Equal(t, "admin", r.URL.Query().Get("userEmail"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"ID": "SOL-001", "Usuario": "Ana", "Email": "ana@frutosdecopan.hn", "Activa": true},
				{"ID": "SOL-002", "Usuario": "Luis", "Email": "luis@frutosdecopan.hn", "Activa": false},
			},
		})
	})

	solicitudes, err := client.GetSolicitudes(context.Background(), "admin")
	require.NoError(t, err)
	require.Len(t, solicitudes, 2)
	assert.Equal(t, "SOL-001", solicitudes[0].ID)
	assert.True(t, solicitudes[0].Activa)
	assert.False(t, solicitudes[1].Activa)
}

func TestLogin(t *testing.T) {
	t.Run("credenciales validas", func(t *testing.T) {
		client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "login", r.URL.Query().Get("action"))
			assert.Equal(t, "ana@frutosdecopan.hn", r.URL.Query().Get("email"))
			assert.Equal(t, "secreta", r.URL.Query().Get("password"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"id": "3", "correo": "ana@frutosdecopan.hn", "nombre": "Ana", "nivel": 1},
			})
		})

		usuario, err := client.Login(context.Background(), "ana@frutosdecopan.hn", "secreta")
		require.NoError(t, err)
		assert.Equal(t, "Ana", usuario.Nombre)
		assert.Equal(t, 1, usuario.Nivel)
	})

	t.Run("credenciales invalidas", func(t *testing.T) {
		client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Credenciales inválidas",
			})
		})

		usuario, err := client.Login(context.Background(), "ana@frutosdecopan.hn", "mala")
		require.Error(t, err)
		assert.Nil(t, usuario)

		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "login", remoteErr.Action)
		assert.Equal(t, "Credenciales inválidas", remoteErr.Message)
	})
}

func TestAddSolicitudEnviaFormularioMultipart(t *testing.T) {
	var recibido SolicitudPayload

	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "addSolicitud", r.FormValue("action"))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &recibido))

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	payload := SolicitudPayload{
		Date:     "2024-03-01",
		Type:     "Pedidos",
		Location: "Santa Rosa",
		Products: map[string]int{"Mangos": 5},
		Comments: "Feria del agricultor",
		User:     "Ana",
		Email:    "ana@frutosdecopan.hn",
		UserID:   "3",
	}
	require.NoError(t, client.AddSolicitud(context.Background(), payload))
	assert.Equal(t, payload, recibido)
}

func TestFinalizeSolicitud(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "finalizeSolicitud", r.FormValue("action"))

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &payload))
		assert.Equal(t, "SOL-001", payload["solicitudId"])
		assert.Equal(t, "Carlos", payload["responsable"])

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	require.NoError(t, client.FinalizeSolicitud(context.Background(), "SOL-001", "Carlos"))
}

func TestSetDisponibilidad(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "setDisponibilidad", r.FormValue("action"))

		var payload struct {
			UserID           string   `json:"userId"`
			UnavailableDates []string `json:"unavailableDates"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &payload))
		assert.Equal(t, "7", payload.UserID)
		assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, payload.UnavailableDates)

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	err := client.SetDisponibilidad(context.Background(), "7", []string{"2024-03-01", "2024-03-02"})
	require.NoError(t, err)
}

func TestErroresDeTransporte(t *testing.T) {
	t.Run("servidor caido", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		client := NewClient(config.Sheets{EndpointURL: srv.URL, Timeout: time.Second})

		_, err := client.GetProductos(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNetwork))
	})

	t.Run("respuesta no JSON", func(t *testing.T) {
		client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>mantenimiento</html>"))
		})

		_, err := client.GetDisponibilidad(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNetwork))
	})
}

func TestGetDisponibilidad(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getDisponibilidad", r.URL.Query().Get("action"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string][]string{"7": {"2024-03-01"}},
		})
	})

	disponibilidad, err := client.GetDisponibilidad(context.Background())
	require.NoError(t, err)
	assert.True(t, disponibilidad.NoDisponible("7", "2024-03-01"))
}
