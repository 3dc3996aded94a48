package models

import "time"

// Evento es un registro de analítica de uso (login, solicitud creada,
// exportación, etc.), persistido localmente en PostgreSQL. Es el único
// dato del que este servicio es dueño; todo lo demás vive en la hoja
// remota.
type Evento struct {
	ID           string            `json:"id"`
	Nombre       string            `json:"nombre"`
	UsuarioEmail string            `json:"usuario_email"`
	Params       map[string]string `json:"params,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Nombres de eventos registrados por los handlers del servicio.
const (
	EventoLogin               = "login"
	EventoSolicitudCreada     = "solicitud_created"
	EventoSolicitudEditada    = "solicitud_edited"
	EventoSolicitudFinalizada = "solicitud_finalized"
	EventoExportacion         = "export_data"
	EventoBusqueda            = "search"
	EventoUsoDeFuncionalidad  = "feature_use"
	EventoVistaDePagina       = "page_view"
)

// EventoResumen agrupa el conteo de eventos por nombre, para el panel
// de administración.
type EventoResumen struct {
	Nombre string `json:"nombre"`
	Total  int    `json:"total"`
}
