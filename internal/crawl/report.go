package crawl

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ReportFile is the name of the last-run report inside the report directory.
const ReportFile = ".lastrun.json"

type runReport struct {
	RunID      string        `json:"run_id"`
	FinishedAt string        `json:"finished_at"`
	Watermark  string        `json:"watermark"`
	Default    bool          `json:"default_watermark,omitempty"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	UpToDate   bool          `json:"up_to_date"`
	Rows       int64         `json:"rows"`
	Months     []monthReport `json:"months,omitempty"`
	EmptyDates []string      `json:"empty_dates,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type monthReport struct {
	Month  string `json:"month"`
	Days   int    `json:"days"`
	Rows   int64  `json:"rows"`
	Export string `json:"export,omitempty"`
}

func newRunReport(res *Result, runErr error) runReport {
	rep := runReport{
		RunID:      res.RunID,
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
		Watermark:  formatDate(res.Window.Watermark),
		Default:    res.Window.DefaultWatermark,
		From:       formatDate(res.Window.Start),
		To:         formatDate(res.Window.End),
		UpToDate:   res.UpToDate,
		Rows:       res.Rows,
	}
	for _, m := range res.Months {
		rep.Months = append(rep.Months, monthReport{Month: m.Month.Format("2006-01"), Days: m.Days, Rows: m.Rows, Export: m.Export})
	}
	for _, d := range res.EmptyDates {
		rep.EmptyDates = append(rep.EmptyDates, formatDate(d))
	}
	if runErr != nil {
		rep.Error = runErr.Error()
	}
	return rep
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func writeRunReport(dir string, res *Result, runErr error) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(newRunReport(res, runErr), "", "  ")
	if err != nil {
		return err
	}
	p := filepath.Join(dir, ReportFile)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return err
	}
	slog.Debug("report wrote", "path", p)
	return nil
}
