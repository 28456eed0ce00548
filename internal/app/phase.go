package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"ima-data/internal/crawl"
)

// Job is one pipeline run.
type Job interface {
	Run(ctx context.Context) (*crawl.Result, error)
}

// RunFlow runs the job once, or, when cfg.Schedule is set, on that cron schedule until SIGINT/SIGTERM.
// In run-once mode the job error is returned; scheduled runs only log failures.
func RunFlow(ctx context.Context, cfg *Config, job Job) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule == "" {
		_, err := job.Run(ctx)
		return err
	}
	return runScheduled(ctx, cfg.Schedule, job)
}

func runScheduled(ctx context.Context, spec string, job Job) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := job.Run(ctx); err != nil {
			slog.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("SCHEDULE %q: %w", spec, err)
	}
	c.Start()
	slog.Info("timer waiting", "schedule", spec, "next_run", c.Entry(id).Next.Format("2006-01-02 15:04"))

	<-ctx.Done()
	slog.Info("received signal, graceful shutdown")
	<-c.Stop().Done()
	return nil
}
