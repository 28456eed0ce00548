package crawl

import (
	"log/slog"
	"time"

	"ima-data/internal/calendar"
)

// Progress reports a run at two granularities: months left in the run and days left
// in the current month.
type Progress struct {
	logger      *slog.Logger
	totalMonths int
	doneMonths  int
	daysInMonth int
	doneDays    int
	started     time.Time
}

func newProgress(logger *slog.Logger, batches []calendar.MonthBatch) *Progress {
	var days int
	for _, b := range batches {
		days += len(b.Days)
	}
	logger.Info("months to fetch", "months", len(batches), "days", days)
	return &Progress{logger: logger, totalMonths: len(batches), started: time.Now()}
}

// StartMonth is called before the first fetch of a month.
func (p *Progress) StartMonth(b calendar.MonthBatch) {
	p.daysInMonth, p.doneDays = len(b.Days), 0
	p.logger.Info("scraping month",
		"month", b.Month.Format("2006-01"),
		"days", len(b.Days),
		"months_left", p.totalMonths-p.doneMonths)
}

// Day is called after each fetch.
func (p *Progress) Day(day time.Time, rows int) {
	p.doneDays++
	p.logger.Info("day fetched",
		"date", day.Format(time.DateOnly),
		"rows", rows,
		"days_left", p.daysInMonth-p.doneDays)
}

// MonthDone is called once the month batch is stored.
func (p *Progress) MonthDone(b calendar.MonthBatch, rows int64) {
	p.doneMonths++
	p.logger.Info("saved month",
		"month", b.Month.Format("2006-01"),
		"rows", rows,
		"months_left", p.totalMonths-p.doneMonths,
		"elapsed", time.Since(p.started).Round(time.Second).String())
}
