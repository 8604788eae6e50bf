package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN enables the attempt log when set.
	PostgresDSN    string `env:"POSTGRES_DSN"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	AdminAPIKey    string `env:"ADMIN_API_KEY"`

	AllowAnyOrigin   bool   `env:"ALLOW_ANY_ORIGIN" envDefault:"false"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"agronomo"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
