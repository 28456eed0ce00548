package app

import (
	"fmt"
	"log/slog"
	"os"

	"ima-data/internal/calendar"
	"ima-data/internal/crawl"
	"ima-data/internal/provider"
	"ima-data/internal/provider/anbima"
	"ima-data/internal/saver"
	"ima-data/internal/slogx"
	"ima-data/internal/store"
)

// CreateLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and installs it as default.
func CreateLogger(cfg *Config) *slog.Logger {
	l := slogx.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(l)
	return l
}

// CreateCalendar loads the holiday file. An empty holiday set is allowed but logged.
func CreateCalendar(cfg *Config, logger *slog.Logger) (*calendar.Calendar, error) {
	cal, err := calendar.Load(cfg.HolidaysFile, cfg.HolidaysSkipFooter)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}
	if cal.Len() == 0 {
		logger.Warn("holiday file has no dates, only weekends are skipped", "file", cfg.HolidaysFile)
	}
	return cal, nil
}

// CreateAnbimaProvider loads the user-agent pool and builds the ANBIMA provider.
// Caller must call dp.Close() when shutting down.
func CreateAnbimaProvider(cfg *Config, logger *slog.Logger) (*provider.AnbimaProvider, error) {
	agents, err := anbima.LoadUserAgents(cfg.UserAgentsFile, cfg.UserAgentsSkip)
	if err != nil {
		return nil, fmt.Errorf("user agents: %w", err)
	}
	return provider.NewAnbimaProvider(anbima.Options{
		Endpoint: cfg.Endpoint,
		Agents:   agents,
		Wait:     cfg.Wait,
		Timeout:  cfg.HTTPTimeout,
		Logger:   logger,
	})
}

// CreatePacketSaver returns the month-batch exporter, or nil when EXPORT_FORMAT is empty.
func CreatePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	if cfg.ExportFormat == "" {
		return nil, nil
	}
	ps := saver.NewPacketSaver(cfg.ExportFormat)
	if ps == nil {
		return nil, fmt.Errorf("unsupported EXPORT_FORMAT %q (use: csv, parquet, json)", cfg.ExportFormat)
	}
	return ps, nil
}

// SinkOpener opens the SQLite file at DB_PATH on every call.
func SinkOpener(cfg *Config) crawl.OpenSink {
	path := cfg.DBPath
	return func() (crawl.Sink, error) {
		return store.Open(path)
	}
}

// CreateRunner assembles the pipeline for DB_TABLE.
func CreateRunner(cfg *Config, dp provider.DataProvider, open crawl.OpenSink, cal *calendar.Calendar, ps saver.PacketSaver, logger *slog.Logger) *crawl.Runner {
	if ps != nil {
		logger.Info("wire", "provider", dp.GetName(), "format", ps.Extension(), "dir", cfg.ExportDir(), "pattern", "{table}/{table}_{YYYY-MM}."+ps.Extension())
	}
	return &crawl.Runner{
		Provider:     dp,
		Open:         open,
		Calendar:     cal,
		Table:        cfg.Table,
		DefaultStart: cfg.DefaultStart,
		Saver:        ps,
		ExportDir:    cfg.ExportDir(),
		ReportDir:    cfg.ReportDir(),
		Logger:       logger,
	}
}
