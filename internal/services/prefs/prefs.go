// Package prefs guarda el estado de cliente por usuario que el sistema
// conserva entre sesiones: el borrador del formulario de solicitud y
// la preferencia de modo oscuro. Vive en Redis sin ventana de
// frescura; solo el usuario lo borra o lo reemplaza.
package prefs

import (
	"fmt"
	"time"
)

// Cache es el almacén clave/valor que usa el servicio.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Borrador es el formulario de solicitud a medio completar.
type Borrador struct {
	Fecha       string         `json:"fecha"`
	Tipo        string         `json:"tipo"`
	Ubicacion   string         `json:"ubicacion"`
	Productos   map[string]int `json:"productos"`
	Comentarios string         `json:"comentarios"`
}

// Service implementa borradores y preferencias por usuario.
type Service struct {
	cache Cache
}

// New crea el servicio.
func New(cache Cache) *Service {
	return &Service{cache: cache}
}

func draftKey(email string) string {
	return "draft:" + email
}

func darkModeKey(email string) string {
	return "pref:darkmode:" + email
}

// SaveBorrador guarda el borrador del usuario, reemplazando el
// anterior si existía.
func (s *Service) SaveBorrador(email string, borrador Borrador) error {
	const op = "prefs.SaveBorrador"

	if err := s.cache.Set(draftKey(email), borrador, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Borrador devuelve el borrador guardado del usuario, si hay uno.
func (s *Service) Borrador(email string) (*Borrador, bool, error) {
	const op = "prefs.Borrador"

	var borrador Borrador
	found, err := s.cache.Get(draftKey(email), &borrador)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, false, nil
	}
	return &borrador, true, nil
}

// DeleteBorrador descarta el borrador del usuario.
func (s *Service) DeleteBorrador(email string) error {
	const op = "prefs.DeleteBorrador"

	if err := s.cache.Invalidate(draftKey(email)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetDarkMode guarda la preferencia de modo oscuro del usuario.
func (s *Service) SetDarkMode(email string, enabled bool) error {
	const op = "prefs.SetDarkMode"

	if err := s.cache.Set(darkModeKey(email), enabled, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DarkMode devuelve la preferencia de modo oscuro; sin preferencia
// guardada el modo es claro.
func (s *Service) DarkMode(email string) (bool, error) {
	const op = "prefs.DarkMode"

	var enabled bool
	found, err := s.cache.Get(darkModeKey(email), &enabled)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return false, nil
	}
	return enabled, nil
}
