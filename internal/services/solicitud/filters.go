package solicitud

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// TipoPedidos es el tipo de solicitud que alimenta la vista de
// producción.
const TipoPedidos = "Pedidos"

// Estados reconocidos por los filtros.
const (
	EstadoTodas       = "all"
	EstadoActivas     = "active"
	EstadoFinalizadas = "finalized"
)

// Filtro son los criterios de la vista general de solicitudes. Los
// campos vacíos no filtran.
type Filtro struct {
	Estado  string // all | active | finalized
	Destino string // substring sobre Comentarios, sin distinguir mayúsculas
	Fecha   string // igualdad exacta contra la fecha ISO
	Texto   string // búsqueda libre sobre ID, Usuario, Comentarios y Ubicación
}

// FiltroProduccion son los criterios de la vista de producción, que
// solo considera solicitudes de tipo Pedidos.
type FiltroProduccion struct {
	Estado  string
	Usuario string // igualdad exacta contra el nombre del solicitante
	Texto   string
}

// VisiblesPara recorta la lista a lo que la identidad puede ver: un
// no-admin solo ve sus propias solicitudes aunque el servidor ya
// recorte por su cuenta.
func VisiblesPara(usuario models.Usuario, solicitudes []models.Solicitud) []models.Solicitud {
	if usuario.EsAdmin() {
		return solicitudes
	}
	visibles := make([]models.Solicitud, 0, len(solicitudes))
	for _, sol := range solicitudes {
		if sol.Email == usuario.Correo {
			visibles = append(visibles, sol)
		}
	}
	return visibles
}

// Filtrar aplica el filtro sobre la lista y devuelve una vista nueva.
// Es una función pura: nunca muta la lista recibida y aplicada dos
// veces con los mismos criterios da el mismo resultado.
func Filtrar(solicitudes []models.Solicitud, filtro Filtro) []models.Solicitud {
	resultado := make([]models.Solicitud, 0, len(solicitudes))
	destino := strings.ToLower(strings.TrimSpace(filtro.Destino))
	texto := strings.ToLower(strings.TrimSpace(filtro.Texto))

	for _, sol := range solicitudes {
		if !matchEstado(sol, filtro.Estado) {
			continue
		}
		if destino != "" && !strings.Contains(strings.ToLower(sol.Comentarios), destino) {
			continue
		}
		if filtro.Fecha != "" && sol.FechaISO() != filtro.Fecha {
			continue
		}
		if texto != "" && !matchTexto(sol, texto) {
			continue
		}
		resultado = append(resultado, sol)
	}
	return resultado
}

// FiltrarProduccion arma la vista de producción: solo solicitudes de
// tipo Pedidos, con filtros de estado, solicitante y búsqueda libre.
func FiltrarProduccion(solicitudes []models.Solicitud, filtro FiltroProduccion) []models.Solicitud {
	resultado := make([]models.Solicitud, 0, len(solicitudes))
	texto := strings.ToLower(strings.TrimSpace(filtro.Texto))

	for _, sol := range solicitudes {
		if sol.Tipo != TipoPedidos {
			continue
		}
		if !matchEstado(sol, filtro.Estado) {
			continue
		}
		if filtro.Usuario != "" && filtro.Usuario != "all" && sol.Usuario != filtro.Usuario {
			continue
		}
		if texto != "" && !matchTexto(sol, texto) {
			continue
		}
		resultado = append(resultado, sol)
	}
	return resultado
}

func matchEstado(sol models.Solicitud, estado string) bool {
	switch estado {
	case EstadoActivas:
		return sol.Activa
	case EstadoFinalizadas:
		return !sol.Activa
	default:
		return true
	}
}

func matchTexto(sol models.Solicitud, texto string) bool {
	return strings.Contains(strings.ToLower(sol.ID), texto) ||
		strings.Contains(strings.ToLower(sol.Usuario), texto) ||
		strings.Contains(strings.ToLower(sol.Comentarios), texto) ||
		strings.Contains(strings.ToLower(sol.Ubicacion), texto)
}

// Resumen son los totales del panel de administración.
type Resumen struct {
	Total            int `json:"total"`
	Activas          int `json:"activas"`
	Finalizadas      int `json:"finalizadas"`
	ProductosActivos int `json:"productos_activos"`
}

// Resumir calcula los totales del panel a partir del snapshot.
func Resumir(solicitudes []models.Solicitud, productos []models.Producto) Resumen {
	resumen := Resumen{Total: len(solicitudes)}
	for _, sol := range solicitudes {
		if sol.Activa {
			resumen.Activas++
		} else {
			resumen.Finalizadas++
		}
	}
	resumen.ProductosActivos = len(models.ProductosActivos(productos))
	return resumen
}

// ExportarCSV escribe las solicitudes en CSV con las mismas columnas
// que exportaba el cliente original.
func ExportarCSV(w io.Writer, solicitudes []models.Solicitud) error {
	const op = "solicitud.ExportarCSV"

	cw := csv.NewWriter(w)
	header := []string{"ID", "Fecha", "Usuario", "Email", "Ubicación", "Tipo", "Destino", "Estado", "Responsable"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, sol := range solicitudes {
		estado := "Finalizada"
		if sol.Activa {
			estado = "Activa"
		}
		row := []string{
			sol.ID,
			sol.FechaISO(),
			sol.Usuario,
			sol.Email,
			sol.Ubicacion,
			sol.Tipo,
			sol.Comentarios,
			estado,
			sol.Responsable,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
