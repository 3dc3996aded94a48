// Package cache implementa el cache de lectura del servicio sobre
// Redis. Cada dataset de referencia se guarda serializado en JSON con
// un TTL fijo (la ventana de frescura); una vez vencido, Redis lo
// descarta y la lectura se trata como ausente.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frutosdecopan/pulpa-backend/internal/config"
)

// Claves de los cuatro datasets de referencia. Replican las claves
// que usaba el cliente original en localStorage.
const (
	KeySolicitudes    = "cache_solicitudes"
	KeyProductos      = "cache_productos"
	KeyUsuarios       = "cache_usuarios"
	KeyDisponibilidad = "cache_disponibilidad"
)

// DatasetKeys lista las claves que Clear elimina incondicionalmente.
var DatasetKeys = []string{KeySolicitudes, KeyProductos, KeyUsuarios, KeyDisponibilidad}

// Cache envuelve el cliente Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer abre la conexión a Redis y verifica con un ping.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get intenta leer la clave y decodificarla en result. Devuelve false
// si la clave no existe o ya venció su TTL.
func (c *Cache) Get(key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set guarda el valor serializado en JSON con el TTL dado. Un TTL de
// cero guarda sin vencimiento (preferencias y borradores).
func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(context.Background(), key, jsonData, expiration).Err()
}

// Invalidate elimina una clave puntual.
func (c *Cache) Invalidate(key string) error {
	return c.Db.Del(context.Background(), key).Err()
}

// Clear elimina las cuatro claves de datasets conocidas.
func (c *Cache) Clear() error {
	return c.Db.Del(context.Background(), DatasetKeys...).Err()
}
