package config

import (
	"testing"
	"time"
)

func TestLoadProbeDefaults(t *testing.T) {
	cfg, err := LoadProbe()
	if err != nil {
		t.Fatalf("LoadProbe() error = %v", err)
	}
	if cfg.WSURL != "ws://localhost:8080/ws" || !cfg.Leave || cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected probe defaults: %+v", cfg)
	}
}

func TestLoadProbeOverrides(t *testing.T) {
	t.Setenv("PROBE_WS_URL", "wss://agro.example/ws")
	t.Setenv("PROBE_PERSONA_ID", "p-2")
	t.Setenv("PROBE_LEAVE", "false")
	t.Setenv("PROBE_TIMEOUT", "5s")

	cfg, err := LoadProbe()
	if err != nil {
		t.Fatalf("LoadProbe() error = %v", err)
	}
	if cfg.WSURL != "wss://agro.example/ws" || cfg.PersonaID != "p-2" || cfg.Leave || cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected probe config: %+v", cfg)
	}
}
