package models

// Producto es una entrada del catálogo de la hoja remota. El servicio
// solo lo lee para armar el formulario de solicitud, filtrando activos.
type Producto struct {
	Nombre string `json:"Nombre"`
	Activo bool   `json:"Activo"`
}

// ProductosActivos filtra el catálogo dejando solo productos activos.
func ProductosActivos(productos []Producto) []Producto {
	activos := make([]Producto, 0, len(productos))
	for _, p := range productos {
		if p.Activo {
			activos = append(activos, p)
		}
	}
	return activos
}
