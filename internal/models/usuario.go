package models

// Niveles de acceso del sistema. El nivel gobierna qué datos ve el
// usuario y qué acciones puede ejecutar.
const (
	// NivelAdmin ve todas las solicitudes y administra disponibilidad.
	NivelAdmin = 1
	// NivelSolicitante solo ve sus propias solicitudes.
	NivelSolicitante = 2
	// NivelProduccion ve la vista de pedidos y puede finalizarlos.
	NivelProduccion = 3
)

// Usuario es la identidad autenticada que devuelve la acción login
// del backend remoto. Existe solo mientras dura la sesión.
type Usuario struct {
	ID     string `json:"id"`
	Correo string `json:"correo"`
	Nombre string `json:"nombre"`
	Nivel  int    `json:"nivel"`
}

// EsAdmin indica si el usuario tiene el nivel de acceso completo.
func (u Usuario) EsAdmin() bool { return u.Nivel == NivelAdmin }

// EsProduccion indica si el usuario pertenece al rol de producción.
func (u Usuario) EsProduccion() bool { return u.Nivel == NivelProduccion }

// UsuarioDisponible es una entrada del catálogo de personas asignables
// como responsables de una solicitud. Solo lectura para el servicio.
type UsuarioDisponible struct {
	ID     string `json:"ID"`
	Nombre string `json:"Nombre"`
}
