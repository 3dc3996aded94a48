package models

// Disponibilidad asocia el ID de un usuario asignable con el conjunto
// de fechas (formato 2006-01-02) en las que NO está disponible. Se
// reemplaza por completo por usuario en cada guardado.
type Disponibilidad map[string][]string

// NoDisponible indica si el usuario tiene marcada la fecha dada como
// no disponible.
func (d Disponibilidad) NoDisponible(usuarioID, fecha string) bool {
	for _, f := range d[usuarioID] {
		if f == fecha {
			return true
		}
	}
	return false
}
