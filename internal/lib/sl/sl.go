// Package sl contiene funciones auxiliares para el logger slog.
// El objetivo es unificar la forma en que se registran los errores
// en todo el servicio.
package sl

import "log/slog"

// Err devuelve un slog.Attr con la clave "error" y el texto del error.
//
// Ejemplo:
//
//	log.Error("failed to load data", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
