package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("GAMEBANK_BUS_PROVIDER", "")
	t.Setenv("GAMEBANK_API_ENABLED", "")
	t.Setenv("GAMEBANK_POSTGRES_HOST", "")
	t.Setenv("GAMEBANK_REDIS_HOST", "")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BusProvider != BusNone {
		t.Errorf("bus provider = %q", cfg.BusProvider)
	}
	if _, err := cfg.ApiAddr(); err == nil {
		t.Error("api should be disabled by default")
	}
	if _, err := cfg.DSN(); err == nil {
		t.Error("archive should be disabled by default")
	}
	if _, err := cfg.RedisAddr(); err == nil {
		t.Error("cache should be disabled by default")
	}
	if _, err := cfg.NatsAddr(); err == nil {
		t.Error("bus should be disabled by default")
	}
	if cfg.SnapshotTTL != 24*time.Hour {
		t.Errorf("snapshot ttl = %v", cfg.SnapshotTTL)
	}
}

func TestNew_Enabled(t *testing.T) {
	t.Setenv("GAMEBANK_API_ENABLED", "true")
	t.Setenv("GAMEBANK_API_PORT", "9090")
	t.Setenv("GAMEBANK_GRPC_ENABLED", "true")
	t.Setenv("GAMEBANK_BUS_PROVIDER", "nats")
	t.Setenv("GAMEBANK_NATS_HOST", "nats")
	t.Setenv("GAMEBANK_POSTGRES_HOST", "db")
	t.Setenv("GAMEBANK_POSTGRES_USER", "bank")
	t.Setenv("GAMEBANK_POSTGRES_PASSWORD", "secret")
	t.Setenv("GAMEBANK_POSTGRES_DB", "gamebank")
	t.Setenv("GAMEBANK_REDIS_HOST", "cache")
	t.Setenv("GAMEBANK_TOPUP_DELAY", "250ms")
	t.Setenv("GAMEBANK_LOG_LEVEL", "debug")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if addr, err := cfg.ApiAddr(); err != nil || addr != ":9090" {
		t.Errorf("api addr = %q, %v", addr, err)
	}
	if addr, err := cfg.GRPCAddr(); err != nil || addr != ":50051" {
		t.Errorf("grpc addr = %q, %v", addr, err)
	}
	if addr, err := cfg.NatsAddr(); err != nil || addr != "nats://nats:4222" {
		t.Errorf("nats addr = %q, %v", addr, err)
	}
	if dsn, err := cfg.DSN(); err != nil || dsn != "postgres://bank:secret@db:5432/gamebank?sslmode=disable" {
		t.Errorf("dsn = %q, %v", dsn, err)
	}
	if addr, err := cfg.RedisAddr(); err != nil || addr != "cache:6379" {
		t.Errorf("redis addr = %q, %v", addr, err)
	}
	if cfg.TopUpDelay != 250*time.Millisecond {
		t.Errorf("top-up delay = %v", cfg.TopUpDelay)
	}
	if lvl, _ := cfg.SlogLevel(); lvl != slog.LevelDebug {
		t.Errorf("log level = %v", lvl)
	}
}

func TestNew_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown bus":       {"GAMEBANK_BUS_PROVIDER": "kafka"},
		"nats without host": {"GAMEBANK_BUS_PROVIDER": "nats", "GAMEBANK_NATS_HOST": ""},
		"db without user":   {"GAMEBANK_POSTGRES_HOST": "db", "GAMEBANK_POSTGRES_USER": ""},
		"bad log format":    {"GAMEBANK_LOG_FORMAT": "xml"},
		"bad log level":     {"GAMEBANK_LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := New(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGetEnvDuration_Malformed(t *testing.T) {
	t.Setenv("GAMEBANK_TEST_DELAY", "soon")
	if d := getEnvDuration("GAMEBANK_TEST_DELAY", time.Second); d != time.Second {
		t.Errorf("got %v", d)
	}
}
