package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BusNone = "none"
	BusNats = "nats"
)

type Config struct {
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	SSLMode     string
	RedisHost   string
	RedisPort   string
	NatsHost    string
	NatsPort    string
	ApiPort     string
	ApiEnabled  string
	GRPCPort    string
	GRPCEnabled string
	BusProvider string

	SessionID     string
	TopUpDelay    time.Duration
	PurchaseDelay time.Duration
	SnapshotTTL   time.Duration
	LogLevel      string
	LogFormat     string
}

// New loads and validates configuration from environment variables.
// Every external subsystem is optional: the wallet runs in memory and each
// address accessor returns an error when its subsystem is not configured.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:      os.Getenv("GAMEBANK_POSTGRES_USER"),
		DBPass:      os.Getenv("GAMEBANK_POSTGRES_PASSWORD"),
		DBHost:      os.Getenv("GAMEBANK_POSTGRES_HOST"),
		DBPort:      getEnv("GAMEBANK_POSTGRES_PORT", "5432"),
		DBName:      os.Getenv("GAMEBANK_POSTGRES_DB"),
		SSLMode:     getEnv("GAMEBANK_POSTGRES_SSLMODE", "disable"),
		RedisHost:   os.Getenv("GAMEBANK_REDIS_HOST"),
		RedisPort:   getEnv("GAMEBANK_REDIS_PORT", "6379"),
		NatsHost:    os.Getenv("GAMEBANK_NATS_HOST"),
		NatsPort:    getEnv("GAMEBANK_NATS_PORT", "4222"),
		ApiPort:     getEnv("GAMEBANK_API_PORT", "8080"),
		ApiEnabled:  os.Getenv("GAMEBANK_API_ENABLED"),
		GRPCPort:    getEnv("GAMEBANK_GRPC_PORT", "50051"),
		GRPCEnabled: os.Getenv("GAMEBANK_GRPC_ENABLED"),
		BusProvider: getEnv("GAMEBANK_BUS_PROVIDER", BusNone),

		SessionID:     os.Getenv("GAMEBANK_SESSION_ID"),
		TopUpDelay:    getEnvDuration("GAMEBANK_TOPUP_DELAY", 0),
		PurchaseDelay: getEnvDuration("GAMEBANK_PURCHASE_DELAY", 0),
		SnapshotTTL:   getEnvDuration("GAMEBANK_SNAPSHOT_TTL", 24*time.Hour),
		LogLevel:      getEnv("GAMEBANK_LOG_LEVEL", "info"),
		LogFormat:     getEnv("GAMEBANK_LOG_FORMAT", "text"),
	}

	if cfg.BusProvider != BusNone && cfg.BusProvider != BusNats {
		return nil, fmt.Errorf("invalid bus provider %q, must be 'none' or 'nats'", cfg.BusProvider)
	}
	if cfg.BusProvider == BusNats && cfg.NatsHost == "" {
		return nil, fmt.Errorf("missing required env for nats bus: GAMEBANK_NATS_HOST")
	}
	if cfg.DBHost != "" && (cfg.DBUser == "" || cfg.DBName == "") {
		return nil, fmt.Errorf("missing required env for database: GAMEBANK_POSTGRES_USER/DB")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q, must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the archive database DSN, or an error when no database is configured.
func (c *Config) DSN() (string, error) {
	if c.DBHost == "" {
		return "", fmt.Errorf("archive database is disabled (GAMEBANK_POSTGRES_HOST is empty)")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName, c.SSLMode), nil
}

func (c *Config) RedisAddr() (string, error) {
	if c.RedisHost == "" {
		return "", fmt.Errorf("snapshot cache is disabled (GAMEBANK_REDIS_HOST is empty)")
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort), nil
}

func (c *Config) NatsAddr() (string, error) {
	if c.BusProvider != BusNats {
		return "", fmt.Errorf("message bus is disabled (GAMEBANK_BUS_PROVIDER=%s)", c.BusProvider)
	}
	return fmt.Sprintf("nats://%s:%s", c.NatsHost, c.NatsPort), nil
}

// ApiAddr returns the HTTP listen address if the API is enabled.
func (c *Config) ApiAddr() (string, error) {
	if c.ApiEnabled != "true" {
		return "", fmt.Errorf("HTTP API is disabled (GAMEBANK_API_ENABLED != true)")
	}
	return ":" + c.ApiPort, nil
}

// GRPCAddr returns the gRPC listen address if the gRPC API is enabled.
func (c *Config) GRPCAddr() (string, error) {
	if c.GRPCEnabled != "true" {
		return "", fmt.Errorf("gRPC API is disabled (GAMEBANK_GRPC_ENABLED != true)")
	}
	return ":" + c.GRPCPort, nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("config: ignoring malformed duration", "key", key, "value", val)
		return defaultVal
	}
	return d
}
