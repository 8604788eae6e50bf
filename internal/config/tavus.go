package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const DefaultTavusBaseURL = "https://tavusapi.com/v2"

// TavusConfig holds the credentials and identities used to create
// conversations. Missing values are not a load error: the client reports
// them per attempt so the page can still be served.
type TavusConfig struct {
	APIKey    string `env:"TAVUS_API_KEY"`
	ReplicaID string `env:"TAVUS_REPLICA_ID"`
	PersonaID string `env:"TAVUS_PERSONA_ID"`

	BaseURL                string        `env:"TAVUS_BASE_URL" envDefault:"https://tavusapi.com/v2"`
	Language               string        `env:"TAVUS_LANGUAGE" envDefault:"spanish"`
	ParticipantLeftTimeout int           `env:"TAVUS_PARTICIPANT_LEFT_TIMEOUT" envDefault:"0"`
	HTTPTimeout            time.Duration `env:"TAVUS_HTTP_TIMEOUT" envDefault:"0s"`
}

func LoadTavus() (TavusConfig, error) {
	var cfg TavusConfig
	if err := env.Parse(&cfg); err != nil {
		return TavusConfig{}, err
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.ReplicaID = strings.TrimSpace(cfg.ReplicaID)
	cfg.PersonaID = strings.TrimSpace(cfg.PersonaID)
	if cfg.ParticipantLeftTimeout < 0 {
		return TavusConfig{}, fmt.Errorf("TAVUS_PARTICIPANT_LEFT_TIMEOUT must be >= 0")
	}
	if cfg.HTTPTimeout < 0 {
		return TavusConfig{}, fmt.Errorf("TAVUS_HTTP_TIMEOUT must be >= 0")
	}
	return cfg, nil
}

// Missing lists the env vars of required settings that are empty.
func (c TavusConfig) Missing() []string {
	var out []string
	if c.APIKey == "" {
		out = append(out, "TAVUS_API_KEY")
	}
	if c.ReplicaID == "" {
		out = append(out, "TAVUS_REPLICA_ID")
	}
	if c.PersonaID == "" {
		out = append(out, "TAVUS_PERSONA_ID")
	}
	return out
}
