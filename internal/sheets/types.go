package sheets

import (
	"errors"
	"fmt"
)

// ErrNetwork marca un fallo de transporte hacia el endpoint remoto.
// Los fallos de negocio reportados por el backend llegan como
// *RemoteError, nunca como ErrNetwork.
var ErrNetwork = errors.New("network error")

// RemoteError es un fallo de negocio reportado por el backend remoto
// dentro del sobre {success:false, error}. El mensaje se muestra tal
// cual al usuario.
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("sheets: action %s: %s", e.Action, e.Message)
}

// SolicitudPayload es el cuerpo JSON de las acciones addSolicitud y
// updateSolicitud. Las claves replican el contrato del backend.
type SolicitudPayload struct {
	SolicitudID string         `json:"solicitudId,omitempty"`
	Date        string         `json:"date"`
	Type        string         `json:"type"`
	Location    string         `json:"location"`
	Products    map[string]int `json:"products"`
	Comments    string         `json:"comments"`
	User        string         `json:"user"`
	Email       string         `json:"email"`
	UserID      string         `json:"userId"`
}

type finalizePayload struct {
	SolicitudID string `json:"solicitudId"`
	Responsable string `json:"responsable"`
}

type disponibilidadPayload struct {
	UserID           string   `json:"userId"`
	UnavailableDates []string `json:"unavailableDates"`
}
