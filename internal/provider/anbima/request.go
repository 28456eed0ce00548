package anbima

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// DefaultEndpoint serves the IMA summary table download.
const DefaultEndpoint = "https://www.anbima.com.br/informacoes/ima/ima-sh-down.asp"

// DateLayout is the dd/mm/yyyy format the endpoint expects.
const DateLayout = "02/01/2006"

// Request describes one single-day download. It is built fresh for every date and never
// mutated, so no parameters leak between calls.
type Request struct {
	Endpoint  string
	UserAgent string
	Date      time.Time
}

// NewRequest builds the request descriptor for date.
func NewRequest(endpoint, userAgent string, date time.Time) Request {
	return Request{Endpoint: endpoint, UserAgent: userAgent, Date: date}
}

// Query returns a new query map. Reference date, range start and range end all carry
// the same day: the endpoint is queried one day per call.
func (r Request) Query() map[string]string {
	d := r.Date.Format(DateLayout)
	return map[string]string{
		"Idioma":   "PT",
		"Dt_Ref":   d,
		"DataIni":  d,
		"DataFim":  d,
		"Indice":   "quadro-resumo",
		"Consulta": "Ambos",
		"saida":    "csv",
	}
}

// Wait is the pause taken before each request.
// Zero value: no pause. Jitter: a random whole number of seconds in [1, 3].
type Wait struct {
	Fixed  time.Duration
	Jitter bool
}

// Duration returns the pause for the next request.
func (w Wait) Duration() time.Duration {
	if w.Jitter {
		return time.Duration(rand.IntN(3)+1) * time.Second
	}
	return w.Fixed
}

func (w Wait) String() string {
	if w.Jitter {
		return "jitter(1-3s)"
	}
	return w.Fixed.String()
}

// ParseWait accepts "jitter" (or "random"), a Go duration ("500ms"), or a number of seconds ("0.5").
// Empty means no pause.
func ParseWait(s string) (Wait, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "0":
		return Wait{}, nil
	case "jitter", "random":
		return Wait{Jitter: true}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return Wait{}, fmt.Errorf("negative wait %q", s)
		}
		return Wait{Fixed: d}, nil
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec < 0 {
		return Wait{}, fmt.Errorf("invalid wait %q (use jitter, a duration like 500ms, or seconds)", s)
	}
	return Wait{Fixed: time.Duration(sec * float64(time.Second))}, nil
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
