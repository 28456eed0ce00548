package saver

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"ima-data/internal/model"
)

// CSVSaver writes records as comma separated text with the canonical header.
// Missing values are empty cells; dates are yyyy-mm-dd.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(records []model.IndexRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write(model.Columns()); err != nil {
		return err
	}
	row := make([]string, len(model.Columns()))
	for _, r := range records {
		for i, v := range r.Values() {
			row[i] = cell(v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return ""
	}
}
