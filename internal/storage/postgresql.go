// Package storage implementa la persistencia local en PostgreSQL de
// los eventos de analítica de uso. Es el único dato del que este
// servicio es dueño; las solicitudes y catálogos viven en la hoja
// remota.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// Registro del driver pgx para database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/frutosdecopan/pulpa-backend/internal/models"
)

// Storage encapsula la conexión a PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New abre la conexión y verifica que responda.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifica que las migraciones hayan corrido.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'eventos'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table eventos missing or query error: %w", err)
	}
	return nil
}

// SaveEvento inserta un evento de analítica.
func (s *Storage) SaveEvento(ctx context.Context, evento models.Evento) error {
	const op = "storage.SaveEvento"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	params, err := json.Marshal(evento.Params)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO eventos (id, nombre, usuario_email, params, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		evento.ID, evento.Nombre, evento.UsuarioEmail, params, evento.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListResumen agrupa los eventos por nombre, del más frecuente al
// menos frecuente.
func (s *Storage) ListResumen(ctx context.Context) ([]models.EventoResumen, error) {
	const op = "storage.ListResumen"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT nombre, COUNT(*) AS total
			  FROM eventos
			  GROUP BY nombre
			  ORDER BY total DESC, nombre`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.EventoResumen
	for rows.Next() {
		var item models.EventoResumen
		if err := rows.Scan(&item.Nombre, &item.Total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListRecientes devuelve los últimos eventos registrados, el más
// nuevo primero.
func (s *Storage) ListRecientes(ctx context.Context, limit int) ([]models.Evento, error) {
	const op = "storage.ListRecientes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nombre, usuario_email, params, created_at
			  FROM eventos
			  ORDER BY created_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Evento
	for rows.Next() {
		var item models.Evento
		var params []byte
		var createdAt time.Time
		if err := rows.Scan(&item.ID, &item.Nombre, &item.UsuarioEmail, &params, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, &item.Params); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		item.CreatedAt = createdAt
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountByNombre cuenta los eventos con el nombre dado.
func (s *Storage) CountByNombre(ctx context.Context, nombre string) (int, error) {
	const op = "storage.CountByNombre"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM eventos WHERE nombre = $1`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, nombre).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
