package cli

import (
	"context"
	"log/slog"
	"testing"

	"tracker/internal/config"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	if logger.Component() != "app" {
		t.Errorf("component = %q, want app", logger.Component())
	}
}

func TestLoadAndValidateConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sheets")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestInitBackendMemory(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory", StorageKey: "transactions"}
	res, err := InitBackend(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("InitBackend: %v", err)
	}
	if err := res.Backend.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
