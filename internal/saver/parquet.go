package saver

import (
	"github.com/parquet-go/parquet-go"

	"ima-data/internal/model"
)

// ParquetSaver writes records as a Parquet file using the struct tags of IndexRecord.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(records []model.IndexRecord, path string) error {
	return parquet.WriteFile(path, records)
}
