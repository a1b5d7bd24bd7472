// Package config loads service configuration from the environment.
// A local .env file is honored in development; real deployments set
// variables directly.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config captures every tunable the server wires at startup.
type Config struct {
	Addr        string `env:"VIGIL_ADDR" envDefault:":8080"`
	Environment string `env:"VIGIL_ENV" envDefault:"development"`

	// Operator authentication. Either form may be configured; at least one
	// must be present outside development.
	AdminToken    string `env:"VIGIL_ADMIN_TOKEN"`
	JWTSigningKey string `env:"VIGIL_JWT_SIGNING_KEY"`

	Database DatabaseConfig
	Redis    RedisConfig
	Audit    AuditConfig
	Actors   ActorsConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `env:"VIGIL_DATABASE_URL"`
	MaxOpenConns    int           `env:"VIGIL_DATABASE_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"VIGIL_DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"VIGIL_DATABASE_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// RedisConfig holds the actor-resolution cache backend settings.
type RedisConfig struct {
	URL          string        `env:"VIGIL_REDIS_URL"`
	PoolSize     int           `env:"VIGIL_REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout  time.Duration `env:"VIGIL_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"VIGIL_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"VIGIL_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// AuditConfig holds audit viewer tunables.
type AuditConfig struct {
	// ActivityScanCap bounds the bulk fetch that feeds activity grouping.
	// A safety valve against unbounded memory use within one request.
	ActivityScanCap int `env:"VIGIL_ACTIVITY_SCAN_CAP" envDefault:"10000"`
}

// ActorsConfig holds the external actor directory settings.
type ActorsConfig struct {
	DirectoryURL     string        `env:"VIGIL_DIRECTORY_URL"`
	DirectoryTimeout time.Duration `env:"VIGIL_DIRECTORY_TIMEOUT" envDefault:"5s"`
	CacheTTL         time.Duration `env:"VIGIL_ACTOR_CACHE_TTL" envDefault:"5m"`
}

// Load reads configuration from the environment (and .env when present).
func Load() (Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
