package app

import (
	"log/slog"

	"github.com/google/wire"

	"ima-data/internal/calendar"
	"ima-data/internal/crawl"
	"ima-data/internal/provider"
	"ima-data/internal/saver"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideLogger builds and installs the process logger (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	return CreateLogger(cfg)
}

// ProvideCalendar loads the business-day calendar (for Wire).
func ProvideCalendar(cfg *Config, logger *slog.Logger) (*calendar.Calendar, error) {
	return CreateCalendar(cfg, logger)
}

// ProvideAnbimaProvider creates the ANBIMA DataProvider (for Wire).
// Caller must call dp.Close() when shutting down.
func ProvideAnbimaProvider(cfg *Config, logger *slog.Logger) (*provider.AnbimaProvider, error) {
	return CreateAnbimaProvider(cfg, logger)
}

// ProvidePacketSaver creates the optional PacketSaver from config (for Wire).
func ProvidePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	return CreatePacketSaver(cfg)
}

// ProvideOpenSink returns the store opener (for Wire).
func ProvideOpenSink(cfg *Config) crawl.OpenSink {
	return SinkOpener(cfg)
}

// ProvideRunner assembles the crawl pipeline (for Wire).
func ProvideRunner(cfg *Config, dp provider.DataProvider, open crawl.OpenSink, cal *calendar.Calendar, ps saver.PacketSaver, logger *slog.Logger) *crawl.Runner {
	return CreateRunner(cfg, dp, open, cal, ps, logger)
}

// ProviderSet is everything InitializeApp needs.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideCalendar,
	ProvideAnbimaProvider,
	wire.Bind(new(provider.DataProvider), new(*provider.AnbimaProvider)),
	ProvidePacketSaver,
	ProvideOpenSink,
	ProvideRunner,
)
