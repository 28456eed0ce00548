package anbima

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"ima-data/internal/model"
)

// Options configures a Crawler.
type Options struct {
	Endpoint string         // defaults to DefaultEndpoint
	Agents   *UserAgentPool // required
	Wait     Wait           // pause before each request
	Timeout  time.Duration  // zero: no client timeout
	Sleep    SleepFunc      // defaults to Sleep; tests inject a recorder
	Logger   *slog.Logger   // defaults to slog.Default()
}

// Crawler downloads and normalizes the IMA summary table, one reference date per call.
// Calls are meant to be made sequentially.
type Crawler struct {
	client   *resty.Client
	endpoint string
	agents   *UserAgentPool
	wait     Wait
	sleep    SleepFunc
	logger   *slog.Logger
}

// NewCrawler constructs a Crawler with its own HTTP client.
func NewCrawler(opts Options) (*Crawler, error) {
	if opts.Agents == nil {
		return nil, errors.New("anbima: user-agent pool is required")
	}
	c := &Crawler{
		client:   newRestyClient(opts.Timeout),
		endpoint: opts.Endpoint,
		agents:   opts.Agents,
		wait:     opts.Wait,
		sleep:    opts.Sleep,
		logger:   opts.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.sleep == nil {
		c.sleep = Sleep
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// SetLogger replaces the logger (e.g. with a run-scoped one).
func (c *Crawler) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Close releases idle connections.
func (c *Crawler) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// Fetch downloads the summary table for date and returns it normalized and validated.
// An empty or unparsable body yields an empty canonical frame, not an error.
// Non-success statuses, cast failures and schema mismatches are returned as errors.
func (c *Crawler) Fetch(ctx context.Context, date time.Time) (*Frame, error) {
	if err := c.sleep(ctx, c.wait.Duration()); err != nil {
		return nil, err
	}

	req := NewRequest(c.endpoint, c.agents.Pick(), date)
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", req.UserAgent).
		SetQueryParams(req.Query()).
		Get(req.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", req.Endpoint, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Status: resp.Status(), Body: resp.String()}
	}

	body, err := DecodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	frame, err := c.normalize(date, body)
	if err != nil {
		return nil, fmt.Errorf("date %s: %w", date.Format(time.DateOnly), err)
	}
	if err := Validate(frame.Columns()); err != nil {
		return nil, fmt.Errorf("date %s: %w", date.Format(time.DateOnly), err)
	}
	return frame, nil
}

func (c *Crawler) normalize(date time.Time, body string) (*Frame, error) {
	table, err := ParseTable(body)
	if err == nil && len(table.Rows) == 0 {
		err = fmt.Errorf("%w: 0 rows", ErrNoData)
	}
	if err != nil {
		c.logger.Warn("no data for date", "date", date.Format(time.DateOnly), "reason", err, "body", body)
		return EmptyFrame(), nil
	}
	return Normalize(table)
}

// FetchDay is Fetch converted to records. A day without data returns an empty slice.
func (c *Crawler) FetchDay(ctx context.Context, date time.Time) ([]model.IndexRecord, error) {
	frame, err := c.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	return frame.Records()
}
