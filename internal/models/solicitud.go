// Package models contiene las estructuras de dominio del sistema PULPA:
// solicitudes de producto, catálogo, usuarios asignables y disponibilidad.
// La hoja de cálculo remota es la dueña de todos los datos persistidos;
// estas estructuras son copias efímeras del lado del servicio.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Solicitud representa un pedido de productos para una ubicación.
// Los nombres de campo JSON replican las columnas de la hoja remota.
// Productos llega como un string JSON ({"nombre": cantidad}) tal cual
// lo guarda el backend de Apps Script.
type Solicitud struct {
	ID          string `json:"ID"`
	Fecha       string `json:"Fecha"`
	Usuario     string `json:"Usuario"`
	Email       string `json:"Email"`
	Tipo        string `json:"Tipo"`
	Ubicacion   string `json:"Ubicacion"`
	Comentarios string `json:"Comentarios"`
	Productos   string `json:"Productos"`
	Activa      bool   `json:"Activa"`
	Responsable string `json:"Responsable"`
}

// FechaISO devuelve la fecha en formato 2006-01-02, descartando la parte
// horaria que a veces incluye la hoja remota.
func (s Solicitud) FechaISO() string {
	if s.Fecha == "" {
		return ""
	}
	fecha, _, _ := strings.Cut(s.Fecha, "T")
	return fecha
}

// ProductosMap decodifica el string JSON de productos en un mapa
// nombre → cantidad. Un string vacío equivale a un mapa vacío.
func (s Solicitud) ProductosMap() (map[string]int, error) {
	if strings.TrimSpace(s.Productos) == "" {
		return map[string]int{}, nil
	}
	var productos map[string]int
	if err := json.Unmarshal([]byte(s.Productos), &productos); err != nil {
		return nil, fmt.Errorf("solicitud %s: productos malformados: %w", s.ID, err)
	}
	return productos, nil
}
