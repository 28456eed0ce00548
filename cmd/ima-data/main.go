package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ima-data/internal/app"
	"ima-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.Default)
}

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the provider is always closed.
func run() error {
	a, err := InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.DP.Close()

	cfg := a.Config
	slog.Info("using data provider", "provider", a.DP.GetName())
	slog.Info("store", "db", cfg.DBPath, "table", cfg.Table, "wait", cfg.Wait.String())

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	return app.RunFlow(context.Background(), cfg, a.Runner)
}
