package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ProbeConfig drives the call-probe command against a running server.
type ProbeConfig struct {
	WSURL     string        `env:"PROBE_WS_URL" envDefault:"ws://localhost:8080/ws"`
	ReplicaID string        `env:"PROBE_REPLICA_ID"`
	PersonaID string        `env:"PROBE_PERSONA_ID"`
	Language  string        `env:"PROBE_LANGUAGE"`
	Leave     bool          `env:"PROBE_LEAVE" envDefault:"true"`
	Timeout   time.Duration `env:"PROBE_TIMEOUT" envDefault:"30s"`
}

func LoadProbe() (ProbeConfig, error) {
	var cfg ProbeConfig
	err := env.Parse(&cfg)
	return cfg, err
}
