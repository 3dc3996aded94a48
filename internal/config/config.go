// Package config define las estructuras de configuración del servicio
// y la función para cargarlas desde el YAML apuntado por CONFIG_PATH.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config agrupa toda la configuración del servicio.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RabbitURL               string `yaml:"rabbit_url"`
	Sheets                  `yaml:"sheets"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Notifier                `yaml:"notifier"`
}

// Sheets configura el cliente del endpoint remoto de Apps Script.
type Sheets struct {
	EndpointURL string        `yaml:"endpoint_url"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
	// CacheTTL es la ventana de frescura de los cuatro datasets de
	// referencia. Fuera de la ventana la entrada se considera ausente.
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// HTTPServer configura el servidor HTTP del servicio.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection configura la conexión al cache Redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken configura la emisión de tokens de sesión.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Notifier configura el sondeo periódico de solicitudes nuevas.
type Notifier struct {
	Interval time.Duration `yaml:"interval" env-default:"30s"`
}

// MustLoad carga la configuración desde CONFIG_PATH y termina el
// proceso si falta el archivo o no se puede parsear.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
