//go:build wireinject
// +build wireinject

package main

import (
	"ima-data/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App (Config + DataProvider + Runner) via Wire.
// Caller must call a.DP.Close() when done.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProviderSet,
		wire.Struct(new(App), "Config", "DP", "Runner"),
	)
	return nil, nil
}
