// Package sheets implementa el cliente tipado del backend remoto del
// sistema PULPA: un único endpoint de Apps Script que multiplexa todas
// las operaciones detrás del parámetro action. Las lecturas van por
// GET con query params; las escrituras por POST multipart con los
// campos action y data (JSON). Toda respuesta usa el sobre
// {success, data?, error?}. El cliente no reintenta: un fallo de
// escritura se reintenta solo por acción explícita del usuario.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/frutosdecopan/pulpa-backend/internal/config"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// Client es el cliente del endpoint remoto.
type Client struct {
	endpointURL string
	httpClient  *http.Client
}

// NewClient crea el cliente con el timeout configurado.
func NewClient(cfg config.Sheets) *Client {
	return &Client{
		endpointURL: cfg.EndpointURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) get(ctx context.Context, action string, params url.Values, out any) error {
	const op = "sheets.get"

	u, err := url.Parse(c.endpointURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := u.Query()
	query.Set("action", action)
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.do(req, action, out)
}

func (c *Client) post(ctx context.Context, action string, payload any) error {
	const op = "sheets.post"

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("action", action); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := form.WriteField("data", string(data)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.do(req, action, nil)
}

// do ejecuta la petición y decodifica el sobre. Un fallo de transporte
// se normaliza a ErrNetwork; un success=false se devuelve como
// *RemoteError con el mensaje del servidor.
func (c *Client) do(req *http.Request, action string, out any) error {
	const op = "sheets.do"

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: action %s: %w: %w", op, action, ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: action %s: %w: %w", op, action, ErrNetwork, err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "unknown remote error"
		}
		return &RemoteError{Action: action, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: action %s: %w", op, action, err)
		}
	}
	return nil
}

// Login verifica las credenciales contra la acción login y devuelve
// la identidad del usuario.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Usuario, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("password", password)

	var usuario models.Usuario
	if err := c.get(ctx, "login", params, &usuario); err != nil {
		return nil, err
	}
	return &usuario, nil
}

// GetSolicitudes lista las solicitudes visibles para userEmail. El
// literal "admin" pide la vista completa; cualquier otro valor recorta
// del lado del servidor a las solicitudes de ese correo.
func (c *Client) GetSolicitudes(ctx context.Context, userEmail string) ([]models.Solicitud, error) {
	params := url.Values{}
	params.Set("userEmail", userEmail)

	var solicitudes []models.Solicitud
	if err := c.get(ctx, "getSolicitudes", params, &solicitudes); err != nil {
		return nil, err
	}
	return solicitudes, nil
}

// GetProductos lista el catálogo completo de productos.
func (c *Client) GetProductos(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	if err := c.get(ctx, "getProductos", nil, &productos); err != nil {
		return nil, err
	}
	return productos, nil
}

// GetUsuariosDisponibles lista las personas asignables como responsable.
func (c *Client) GetUsuariosDisponibles(ctx context.Context) ([]models.UsuarioDisponible, error) {
	var usuarios []models.UsuarioDisponible
	if err := c.get(ctx, "getUsuariosDisponibles", nil, &usuarios); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// GetDisponibilidad devuelve el mapa completo usuario → fechas no
// disponibles.
func (c *Client) GetDisponibilidad(ctx context.Context) (models.Disponibilidad, error) {
	var disponibilidad models.Disponibilidad
	if err := c.get(ctx, "getDisponibilidad", nil, &disponibilidad); err != nil {
		return nil, err
	}
	return disponibilidad, nil
}

// AddSolicitud crea una solicitud nueva.
func (c *Client) AddSolicitud(ctx context.Context, payload SolicitudPayload) error {
	return c.post(ctx, "addSolicitud", payload)
}

// UpdateSolicitud actualiza una solicitud existente; el payload debe
// traer SolicitudID.
func (c *Client) UpdateSolicitud(ctx context.Context, payload SolicitudPayload) error {
	return c.post(ctx, "updateSolicitud", payload)
}

// FinalizeSolicitud marca la solicitud como finalizada con el
// responsable dado.
func (c *Client) FinalizeSolicitud(ctx context.Context, solicitudID, responsable string) error {
	return c.post(ctx, "finalizeSolicitud", finalizePayload{
		SolicitudID: solicitudID,
		Responsable: responsable,
	})
}

// SetDisponibilidad reemplaza por completo el conjunto de fechas no
// disponibles del usuario.
func (c *Client) SetDisponibilidad(ctx context.Context, userID string, unavailableDates []string) error {
	return c.post(ctx, "setDisponibilidad", disponibilidadPayload{
		UserID:           userID,
		UnavailableDates: unavailableDates,
	})
}
