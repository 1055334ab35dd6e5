package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pocketbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Storage struct {
		Backend    string `envconfig:"STORAGE_BACKEND" default:"file"`
		DataDir    string `envconfig:"DATA_DIR" default:"./data"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/pocketbook.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocketbook"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AuthSecret  string        `envconfig:"AUTH_SECRET"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:"./exports"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return &cfg, nil
}
