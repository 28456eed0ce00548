package saver

import (
	"strings"

	"ima-data/internal/model"
)

// PacketSaver persists one month batch of records to a file.
// The crawl loop only depends on this interface; main picks the implementation.
type PacketSaver interface {
	Save(records []model.IndexRecord, path string) error
	Extension() string
}

// NewPacketSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewPacketSaver(format string) PacketSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}
