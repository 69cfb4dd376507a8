// Package scheduler periodically queues every tracked product for a fresh
// scrape.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/models"
)

type Targets interface {
	ScrapeTargets(ctx context.Context) ([]models.ScrapeJob, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, msg any) error
}

// Run blocks until ctx is cancelled. One pass is executed immediately,
// then one per interval.
func Run(ctx context.Context, log *slog.Logger, targets Targets, publisher Publisher, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("scheduler started", slog.Duration("interval", interval))

	publishJobs(ctx, log, targets, publisher)

	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stopping")
			return
		case <-ticker.C:
			publishJobs(ctx, log, targets, publisher)
		}
	}
}

func publishJobs(ctx context.Context, log *slog.Logger, targets Targets, publisher Publisher) {
	const op = "scheduler.publishJobs"

	jobs, err := targets.ScrapeTargets(ctx)
	if err != nil {
		log.Error("failed to list scrape targets", slog.String("op", op), sl.Err(err))
		return
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := publisher.PublishJSON(ctx, job); err != nil {
			log.Error("failed to publish scrape job",
				slog.String("op", op),
				slog.Int64("product_id", job.ID),
				sl.Err(err),
			)
		}
	}

	log.Info("scrape pass queued", slog.Int("jobs", len(jobs)))
}
