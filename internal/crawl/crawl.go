package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ima-data/internal/calendar"
	"ima-data/internal/model"
	"ima-data/internal/provider"
	"ima-data/internal/saver"
)

// DefaultStart is the watermark used when the destination table is missing or unreadable.
var DefaultStart = time.Date(2001, 12, 3, 0, 0, 0, 0, time.UTC)

// Sink is the store a run reads its watermark from and appends month batches to.
type Sink interface {
	MaxReferenceDate(ctx context.Context, table string) (time.Time, bool, error)
	Append(ctx context.Context, table string, records []model.IndexRecord) (int64, error)
	Count(ctx context.Context, table string) (int64, error)
	Close() error
}

// OpenSink opens the store. A run opens it once for the watermark and once per month batch.
type OpenSink func() (Sink, error)

// State is a stage of one run.
type State string

const (
	StateIdle               State = "idle"
	StateResolvingWatermark State = "resolving_watermark"
	StateUpToDate           State = "up_to_date"
	StateFetchingMonth      State = "fetching_month"
	StateAppendingMonth     State = "appending_month"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// Window is the inclusive business-day range a run fetches.
type Window struct {
	Watermark        time.Time // latest stored reference date (or the default)
	DefaultWatermark bool      // true when the store could not provide one
	Start            time.Time // next business day after Watermark
	End              time.Time // last business day before today
}

// Empty reports whether there is nothing to fetch.
func (w Window) Empty() bool { return w.Start.After(w.End) }

// MonthResult summarizes one appended month batch.
type MonthResult struct {
	Month  time.Time
	Days   int
	Rows   int64
	Export string
}

// Result summarizes one run.
type Result struct {
	RunID      string
	Window     Window
	UpToDate   bool
	Months     []MonthResult
	EmptyDates []time.Time
	Rows       int64
}

// Runner executes the watermark → fetch → append pipeline for one table.
type Runner struct {
	Provider     provider.DataProvider
	Open         OpenSink
	Calendar     *calendar.Calendar
	Table        string
	DefaultStart time.Time         // zero: DefaultStart
	Now          func() time.Time  // zero: time.Now
	Saver        saver.PacketSaver // optional month-batch export
	ExportDir    string            // {ExportDir}/{Table}/{Table}_{YYYY-MM}.{ext}
	ReportDir    string            // optional; .lastrun.json is written here
	Logger       *slog.Logger      // zero: slog.Default()
	state        State
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) today() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return calendar.Truncate(now())
}

func (r *Runner) setState(logger *slog.Logger, s State, args ...any) {
	r.state = s
	logger.Debug("state", append([]any{"state", string(s)}, args...)...)
}

// State returns the stage the last run reached.
func (r *Runner) State() State {
	if r.state == "" {
		return StateIdle
	}
	return r.state
}

// ResolveWindow reads the watermark for table and derives the fetch window.
// The upper bound is computed first (previous business day before today), then the
// watermark is advanced by one business day. Store failures fall back to defaultStart.
func ResolveWindow(ctx context.Context, open OpenSink, table string, cal *calendar.Calendar, defaultStart, today time.Time, logger *slog.Logger) Window {
	end := cal.Prev(today)

	w := Window{End: end}
	mark, err := readWatermark(ctx, open, table)
	if err != nil {
		logger.Warn("watermark unavailable, using default start", "table", table, "default", defaultStart.Format(time.DateOnly), "error", err)
		w.Watermark, w.DefaultWatermark = calendar.Truncate(defaultStart), true
	} else {
		w.Watermark = calendar.Truncate(mark)
	}
	w.Start = cal.Next(w.Watermark)
	return w
}

var errNoRows = errors.New("table has no rows")

func readWatermark(ctx context.Context, open OpenSink, table string) (time.Time, error) {
	sink, err := open()
	if err != nil {
		return time.Time{}, err
	}
	defer sink.Close()
	mark, ok, err := sink.MaxReferenceDate(ctx, table)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, errNoRows
	}
	return mark, nil
}

// Run resolves the window, then fetches and appends it month by month.
// The first fetch, validation or store error aborts the run; months appended before it stay committed.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	res = &Result{RunID: uuid.NewString()}
	logger := r.logger().With("run_id", res.RunID, "table", r.Table)
	r.Provider.SetLogger(logger)

	if r.ReportDir != "" {
		defer func() {
			if werr := writeRunReport(r.ReportDir, res, err); werr != nil {
				logger.Warn("could not write run report", "error", werr)
			}
		}()
	}
	defer func() {
		if err != nil {
			r.setState(logger, StateFailed, "error", err)
		}
	}()

	logger.Info("starting", "provider", r.Provider.GetName())
	r.setState(logger, StateResolvingWatermark)

	defaultStart := r.DefaultStart
	if defaultStart.IsZero() {
		defaultStart = DefaultStart
	}
	res.Window = ResolveWindow(ctx, r.Open, r.Table, r.Calendar, defaultStart, r.today(), logger)
	logger.Info("window",
		"watermark", res.Window.Watermark.Format(time.DateOnly),
		"from", res.Window.Start.Format(time.DateOnly),
		"to", res.Window.End.Format(time.DateOnly))

	if res.Window.Empty() {
		res.UpToDate = true
		r.setState(logger, StateUpToDate)
		logger.Info("already up to date")
		return res, nil
	}

	batches := calendar.GroupByMonth(r.Calendar.Range(res.Window.Start, res.Window.End))
	progress := newProgress(logger, batches)
	for _, batch := range batches {
		mr, empty, err := r.runMonth(ctx, logger, progress, batch)
		res.EmptyDates = append(res.EmptyDates, empty...)
		if err != nil {
			return res, err
		}
		res.Months = append(res.Months, mr)
		res.Rows += mr.Rows
	}

	r.setState(logger, StateDone)
	logger.Info("success", "months", len(res.Months), "rows", res.Rows, "empty_dates", len(res.EmptyDates))
	return res, nil
}

func (r *Runner) runMonth(ctx context.Context, logger *slog.Logger, progress *Progress, batch calendar.MonthBatch) (MonthResult, []time.Time, error) {
	month := batch.Month.Format("2006-01")
	r.setState(logger, StateFetchingMonth, "month", month)
	progress.StartMonth(batch)

	var records []model.IndexRecord
	var empty []time.Time
	for _, day := range batch.Days {
		recs, err := r.Provider.FetchDay(ctx, day)
		if err != nil {
			return MonthResult{}, empty, fmt.Errorf("fetch %s: %w", day.Format(time.DateOnly), err)
		}
		if len(recs) == 0 {
			empty = append(empty, day)
		}
		records = append(records, recs...)
		progress.Day(day, len(recs))
	}

	r.setState(logger, StateAppendingMonth, "month", month)
	n, err := r.appendMonth(ctx, logger, records)
	if err != nil {
		return MonthResult{}, empty, fmt.Errorf("append %s: %w", month, err)
	}
	mr := MonthResult{Month: batch.Month, Days: len(batch.Days), Rows: n}
	mr.Export = r.export(logger, batch.Month, records)
	progress.MonthDone(batch, n)
	return mr, empty, nil
}

func (r *Runner) appendMonth(ctx context.Context, logger *slog.Logger, records []model.IndexRecord) (int64, error) {
	sink, err := r.Open()
	if err != nil {
		return 0, err
	}
	defer sink.Close()
	n, err := sink.Append(ctx, r.Table, records)
	if err != nil {
		return 0, err
	}
	if total, err := sink.Count(ctx, r.Table); err == nil {
		logger.Debug("table size", "rows", total)
	}
	return n, nil
}

// export writes the month batch through the configured PacketSaver. Failures are logged only.
func (r *Runner) export(logger *slog.Logger, month time.Time, records []model.IndexRecord) string {
	if r.Saver == nil || r.ExportDir == "" || len(records) == 0 {
		return ""
	}
	dir := filepath.Join(r.ExportDir, r.Table)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn("export: cannot create folder", "dir", dir, "error", err)
		return ""
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", r.Table, month.Format("2006-01"), r.Saver.Extension()))
	if err := r.Saver.Save(records, path); err != nil {
		logger.Warn("export: failed to write", "path", path, "error", err)
		return ""
	}
	logger.Info("export saved", "path", path, "rows", len(records))
	return path
}
