package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadTavusDefaults(t *testing.T) {
	cfg, err := LoadTavus()
	if err != nil {
		t.Fatalf("LoadTavus() error = %v", err)
	}
	if cfg.BaseURL != DefaultTavusBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, DefaultTavusBaseURL)
	}
	if cfg.Language != "spanish" {
		t.Fatalf("Language = %q, want spanish", cfg.Language)
	}
	if cfg.ParticipantLeftTimeout != 0 || cfg.HTTPTimeout != 0 {
		t.Fatalf("unexpected timeouts: %+v", cfg)
	}
	want := []string{"TAVUS_API_KEY", "TAVUS_REPLICA_ID", "TAVUS_PERSONA_ID"}
	if got := cfg.Missing(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}
}

func TestLoadTavusOverrides(t *testing.T) {
	t.Setenv("TAVUS_API_KEY", "  key-1 ")
	t.Setenv("TAVUS_REPLICA_ID", "r-1")
	t.Setenv("TAVUS_PERSONA_ID", "p-1")
	t.Setenv("TAVUS_LANGUAGE", "english")
	t.Setenv("TAVUS_PARTICIPANT_LEFT_TIMEOUT", "30")
	t.Setenv("TAVUS_HTTP_TIMEOUT", "15s")

	cfg, err := LoadTavus()
	if err != nil {
		t.Fatalf("LoadTavus() error = %v", err)
	}
	if cfg.APIKey != "key-1" {
		t.Fatalf("APIKey = %q, want trimmed key-1", cfg.APIKey)
	}
	if cfg.Language != "english" || cfg.ParticipantLeftTimeout != 30 || cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected tavus config: %+v", cfg)
	}
	if missing := cfg.Missing(); len(missing) != 0 {
		t.Fatalf("Missing() = %v, want none", missing)
	}
}

func TestLoadTavusRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("TAVUS_PARTICIPANT_LEFT_TIMEOUT", "-1")

	if _, err := LoadTavus(); err == nil {
		t.Fatal("LoadTavus() expected error, got nil")
	}
}
