package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.GeishaSet != "default" {
		t.Errorf("expected GeishaSet=default, got %q", cfg.GeishaSet)
	}
	if cfg.RoomTTLSeconds != 1800 {
		t.Errorf("expected RoomTTLSeconds=1800, got %d", cfg.RoomTTLSeconds)
	}
	if cfg.MaxNameLength != 24 {
		t.Errorf("expected MaxNameLength=24, got %d", cfg.MaxNameLength)
	}
	if cfg.WSPort != 8080 {
		t.Errorf("expected WSPort=8080, got %d", cfg.WSPort)
	}
	if cfg.Timing.OrderRevealMS != 2000 {
		t.Errorf("expected OrderRevealMS=2000, got %d", cfg.Timing.OrderRevealMS)
	}
	if len(cfg.AIProfiles) != 5 {
		t.Errorf("expected 5 AI profiles, got %d", len(cfg.AIProfiles))
	}
}

func TestProfileForTierFallsBackToMedium(t *testing.T) {
	cfg := Defaults()

	p := cfg.ProfileForTier("nonexistent")
	if p.Tier != "medium" {
		t.Errorf("expected fallback to medium, got %q", p.Tier)
	}

	p = cfg.ProfileForTier("hell")
	if p.Policy != "minimax" {
		t.Errorf("expected hell tier to use minimax, got %q", p.Policy)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("GEISHA_SET", "alt")
	os.Setenv("ROOM_TTL_SECONDS", "60")
	os.Setenv("WS_PORT", "9090")
	defer func() {
		os.Unsetenv("GEISHA_SET")
		os.Unsetenv("ROOM_TTL_SECONDS")
		os.Unsetenv("WS_PORT")
	}()

	cfg := Load()

	if cfg.GeishaSet != "alt" {
		t.Errorf("expected GeishaSet=alt after env override, got %q", cfg.GeishaSet)
	}
	if cfg.RoomTTLSeconds != 60 {
		t.Errorf("expected RoomTTLSeconds=60 after env override, got %d", cfg.RoomTTLSeconds)
	}
	if cfg.WSPort != 9090 {
		t.Errorf("expected WSPort=9090 after env override, got %d", cfg.WSPort)
	}
	// Non-overridden fields should remain default
	if cfg.Timing.OrderRevealMS != 2000 {
		t.Errorf("expected OrderRevealMS=2000 (default), got %d", cfg.Timing.OrderRevealMS)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	os.Setenv("ROOM_TTL_SECONDS", "invalid")
	defer os.Unsetenv("ROOM_TTL_SECONDS")

	cfg := Load()

	if cfg.RoomTTLSeconds != 1800 {
		t.Errorf("expected RoomTTLSeconds=1800 (default) with invalid env, got %d", cfg.RoomTTLSeconds)
	}
}
