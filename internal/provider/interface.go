package provider

import (
	"context"
	"log/slog"
	"time"

	"ima-data/internal/model"
)

// DataProvider is the abstraction used by the application when accessing a data source.
// FetchDay returns the normalized records for one reference date; an empty slice means the
// provider had no data for that day. Implementations are responsible for their own pacing
// and resource cleanup.
type DataProvider interface {
	GetName() string
	FetchDay(ctx context.Context, date time.Time) ([]model.IndexRecord, error)
	SetLogger(l *slog.Logger)
	Close() error
}
