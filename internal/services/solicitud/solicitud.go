// Package solicitud contiene la lógica de negocio del ciclo de vida
// de las solicitudes: carga con cache de lectura, creación, edición,
// finalización y las vistas filtradas que consume la capa HTTP.
package solicitud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frutosdecopan/pulpa-backend/internal/cache"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/sl"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/sheets"
)

// Errores de negocio del ciclo de vida. Los handlers los traducen a
// mensajes para el usuario; ninguno dispara una llamada remota.
var (
	ErrNoEncontrada            = errors.New("la solicitud no existe")
	ErrYaFinalizada            = errors.New("la solicitud ya fue finalizada")
	ErrNoPropietario           = errors.New("solo el creador puede editar la solicitud")
	ErrSinProductos            = errors.New("se requiere al menos un producto con cantidad mayor a cero")
	ErrFechaInvalida           = errors.New("fecha inválida, se espera formato 2006-01-02")
	ErrResponsableRequerido    = errors.New("se requiere seleccionar un responsable")
	ErrResponsableNoEncontrado = errors.New("el responsable seleccionado no existe")
	ErrResponsableNoDisponible = errors.New("el responsable no está disponible en la fecha de la solicitud")
)

// Gateway es el subconjunto del cliente remoto que usa el servicio.
type Gateway interface {
	GetSolicitudes(ctx context.Context, userEmail string) ([]models.Solicitud, error)
	GetProductos(ctx context.Context) ([]models.Producto, error)
	GetUsuariosDisponibles(ctx context.Context) ([]models.UsuarioDisponible, error)
	GetDisponibilidad(ctx context.Context) (models.Disponibilidad, error)
	AddSolicitud(ctx context.Context, payload sheets.SolicitudPayload) error
	UpdateSolicitud(ctx context.Context, payload sheets.SolicitudPayload) error
	FinalizeSolicitud(ctx context.Context, solicitudID, responsable string) error
}

// Cache describe el cache de lectura con ventana de frescura.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implementa el ciclo de vida de las solicitudes.
type Service struct {
	gw    Gateway
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New crea el servicio. ttl es la ventana de frescura de los datasets
// de referencia.
func New(gw Gateway, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		gw:    gw,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Snapshot es el estado completo cargado para una identidad: los
// cuatro datasets de referencia. Se reemplaza entero en cada carga,
// nunca se mezcla parcialmente.
type Snapshot struct {
	Solicitudes    []models.Solicitud         `json:"solicitudes"`
	Productos      []models.Producto          `json:"productos"`
	Usuarios       []models.UsuarioDisponible `json:"usuarios"`
	Disponibilidad models.Disponibilidad      `json:"disponibilidad"`
}

// Form es la entrada de crear/editar una solicitud.
type Form struct {
	Fecha       string
	Tipo        string
	Ubicacion   string
	Productos   map[string]int
	Comentarios string
}

// identityParam decide el parámetro de identidad que se pasa al
// backend remoto: admin y producción reciben la vista completa, un
// solicitante solo sus propios registros.
func identityParam(usuario models.Usuario) string {
	if usuario.EsAdmin() || usuario.EsProduccion() {
		return "admin"
	}
	return usuario.Correo
}

// solicitudesKey separa la entrada de cache por identidad. El cliente
// original usaba una sola clave porque el cache vivía en la pestaña de
// un único usuario; en un servicio compartido la vista completa y las
// vistas recortadas no pueden compartir entrada.
func solicitudesKey(usuario models.Usuario) string {
	ident := identityParam(usuario)
	if ident == "admin" {
		return cache.KeySolicitudes
	}
	return cache.KeySolicitudes + ":" + ident
}

// LoadData carga los cuatro datasets en paralelo, consultando primero
// el cache y repoblándolo en cada miss. La carga completa falla si
// cualquiera de los cuatro falla; no hay resultados parciales.
func (s *Service) LoadData(ctx context.Context, usuario models.Usuario) (*Snapshot, error) {
	const op = "solicitud.LoadData"

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		solicitudes, err := s.getSolicitudes(gctx, usuario)
		if err != nil {
			return err
		}
		snap.Solicitudes = solicitudes
		return nil
	})
	g.Go(func() error {
		productos, err := s.getProductos(gctx)
		if err != nil {
			return err
		}
		snap.Productos = productos
		return nil
	})
	g.Go(func() error {
		usuarios, err := s.getUsuarios(gctx)
		if err != nil {
			return err
		}
		snap.Usuarios = usuarios
		return nil
	})
	g.Go(func() error {
		disponibilidad, err := s.getDisponibilidad(gctx)
		if err != nil {
			return err
		}
		snap.Disponibilidad = disponibilidad
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &snap, nil
}

func (s *Service) getSolicitudes(ctx context.Context, usuario models.Usuario) ([]models.Solicitud, error) {
	key := solicitudesKey(usuario)

	var solicitudes []models.Solicitud
	found, err := s.cache.Get(key, &solicitudes)
	if err != nil {
		s.log.Warn("cache read failed, falling back to remote", sl.Err(err))
	}
	if found {
		return solicitudes, nil
	}

	solicitudes, err = s.gw.GetSolicitudes(ctx, identityParam(usuario))
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, solicitudes, s.ttl); err != nil {
		s.log.Warn("failed to cache solicitudes", sl.Err(err))
	}
	return solicitudes, nil
}

func (s *Service) getProductos(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	found, err := s.cache.Get(cache.KeyProductos, &productos)
	if err != nil {
		s.log.Warn("cache read failed, falling back to remote", sl.Err(err))
	}
	if found {
		return productos, nil
	}

	productos, err = s.gw.GetProductos(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cache.KeyProductos, productos, s.ttl); err != nil {
		s.log.Warn("failed to cache productos", sl.Err(err))
	}
	return productos, nil
}

func (s *Service) getUsuarios(ctx context.Context) ([]models.UsuarioDisponible, error) {
	var usuarios []models.UsuarioDisponible
	found, err := s.cache.Get(cache.KeyUsuarios, &usuarios)
	if err != nil {
		s.log.Warn("cache read failed, falling back to remote", sl.Err(err))
	}
	if found {
		return usuarios, nil
	}

	usuarios, err = s.gw.GetUsuariosDisponibles(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cache.KeyUsuarios, usuarios, s.ttl); err != nil {
		s.log.Warn("failed to cache usuarios", sl.Err(err))
	}
	return usuarios, nil
}

func (s *Service) getDisponibilidad(ctx context.Context) (models.Disponibilidad, error) {
	var disponibilidad models.Disponibilidad
	found, err := s.cache.Get(cache.KeyDisponibilidad, &disponibilidad)
	if err != nil {
		s.log.Warn("cache read failed, falling back to remote", sl.Err(err))
	}
	if found {
		return disponibilidad, nil
	}

	disponibilidad, err = s.gw.GetDisponibilidad(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cache.KeyDisponibilidad, disponibilidad, s.ttl); err != nil {
		s.log.Warn("failed to cache disponibilidad", sl.Err(err))
	}
	return disponibilidad, nil
}

// Solicitudes devuelve las solicitudes visibles para la identidad,
// con la misma política de cache que LoadData.
func (s *Service) Solicitudes(ctx context.Context, usuario models.Usuario) ([]models.Solicitud, error) {
	const op = "solicitud.Solicitudes"

	solicitudes, err := s.getSolicitudes(ctx, usuario)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return solicitudes, nil
}

// Productos devuelve el catálogo de productos.
func (s *Service) Productos(ctx context.Context) ([]models.Producto, error) {
	const op = "solicitud.Productos"

	productos, err := s.getProductos(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return productos, nil
}

// Usuarios devuelve las personas asignables como responsable.
func (s *Service) Usuarios(ctx context.Context) ([]models.UsuarioDisponible, error) {
	const op = "solicitud.Usuarios"

	usuarios, err := s.getUsuarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return usuarios, nil
}

// validateForm aplica la validación de negocio previa a cualquier
// llamada remota: fecha parseable y al menos un producto con cantidad
// positiva. Devuelve el mapa depurado (sin cantidades cero).
func validateForm(form Form) (map[string]int, error) {
	if _, err := time.Parse("2006-01-02", form.Fecha); err != nil {
		return nil, ErrFechaInvalida
	}

	productos := make(map[string]int, len(form.Productos))
	for nombre, cantidad := range form.Productos {
		if cantidad > 0 {
			productos[nombre] = cantidad
		}
	}
	if len(productos) == 0 {
		return nil, ErrSinProductos
	}
	return productos, nil
}

// Create valida y envía una solicitud nueva. En éxito invalida el
// cache de solicitudes para que la próxima carga la incluya.
func (s *Service) Create(ctx context.Context, usuario models.Usuario, form Form) error {
	const op = "solicitud.Create"

	productos, err := validateForm(form)
	if err != nil {
		return err
	}

	payload := sheets.SolicitudPayload{
		Date:     form.Fecha,
		Type:     form.Tipo,
		Location: form.Ubicacion,
		Products: productos,
		Comments: form.Comentarios,
		User:     usuario.Nombre,
		Email:    usuario.Correo,
		UserID:   usuario.ID,
	}
	if err := s.gw.AddSolicitud(ctx, payload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created solicitud", slog.String("usuario", usuario.Correo))
	s.invalidateSolicitudes(usuario)
	return nil
}

// Update edita una solicitud existente. Solo el creador puede editar
// y solo mientras la solicitud siga activa.
func (s *Service) Update(ctx context.Context, usuario models.Usuario, solicitudID string, form Form) error {
	const op = "solicitud.Update"

	actual, err := s.findSolicitud(ctx, usuario, solicitudID)
	if err != nil {
		return err
	}
	if !actual.Activa {
		return ErrYaFinalizada
	}
	if actual.Email != usuario.Correo {
		return ErrNoPropietario
	}

	productos, err := validateForm(form)
	if err != nil {
		return err
	}

	payload := sheets.SolicitudPayload{
		SolicitudID: solicitudID,
		Date:        form.Fecha,
		Type:        form.Tipo,
		Location:    form.Ubicacion,
		Products:    productos,
		Comments:    form.Comentarios,
		User:        usuario.Nombre,
		Email:       usuario.Correo,
		UserID:      usuario.ID,
	}
	if err := s.gw.UpdateSolicitud(ctx, payload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("updated solicitud", slog.String("id", solicitudID))
	s.invalidateSolicitudes(usuario)
	return nil
}

// Finalize cierra una solicitud. En el camino admin el responsable se
// elige del catálogo y se cruza contra su disponibilidad en la fecha
// de la solicitud; en el camino producción el responsable es el propio
// actor y no se cruza disponibilidad.
func (s *Service) Finalize(ctx context.Context, usuario models.Usuario, solicitudID, responsableID string) error {
	const op = "solicitud.Finalize"

	actual, err := s.findSolicitud(ctx, usuario, solicitudID)
	if err != nil {
		return err
	}
	if !actual.Activa {
		return ErrYaFinalizada
	}

	responsable := usuario.Nombre
	if !usuario.EsProduccion() {
		if responsableID == "" {
			return ErrResponsableRequerido
		}

		usuarios, err := s.getUsuarios(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		responsable = ""
		for _, u := range usuarios {
			if u.ID == responsableID {
				responsable = u.Nombre
				break
			}
		}
		if responsable == "" {
			return ErrResponsableNoEncontrado
		}

		disponibilidad, err := s.getDisponibilidad(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if fecha := actual.FechaISO(); fecha != "" && disponibilidad.NoDisponible(responsableID, fecha) {
			return ErrResponsableNoDisponible
		}
	}

	if err := s.gw.FinalizeSolicitud(ctx, solicitudID, responsable); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("finalized solicitud",
		slog.String("id", solicitudID),
		slog.String("responsable", responsable))
	s.invalidateSolicitudes(usuario)
	return nil
}

func (s *Service) findSolicitud(ctx context.Context, usuario models.Usuario, solicitudID string) (*models.Solicitud, error) {
	solicitudes, err := s.getSolicitudes(ctx, usuario)
	if err != nil {
		return nil, err
	}
	for i := range solicitudes {
		if solicitudes[i].ID == solicitudID {
			return &solicitudes[i], nil
		}
	}
	return nil, ErrNoEncontrada
}

// invalidateSolicitudes descarta la entrada de la identidad que
// escribió y también la vista completa, que siempre incluye el nuevo
// registro.
func (s *Service) invalidateSolicitudes(usuario models.Usuario) {
	keys := []string{cache.KeySolicitudes}
	if key := solicitudesKey(usuario); key != cache.KeySolicitudes {
		keys = append(keys, key)
	}
	for _, key := range keys {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate solicitudes cache", sl.Err(err))
		}
	}
}
