// Package cron runs the scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/harborbooks/statement-ingest/pkg/storage"
)

// Scheduler owns the background jobs. Its single job purges retained
// statement uploads once they age past the retention window.
type Scheduler struct {
	cron          *cron.Cron
	store         storage.Store
	retentionDays int
	logger        *slog.Logger
}

func NewScheduler(store storage.Store, retentionDays int, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))
	return &Scheduler{
		cron:          c,
		store:         store,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Start begins scheduled jobs. The purge runs daily at 03:00.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredUploads); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.Int("retention_days", s.retentionDays),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers the purge immediately (for admin use).
func (s *Scheduler) RunNow() {
	go s.purgeExpiredUploads()
}

func (s *Scheduler) purgeExpiredUploads() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	s.logger.Info("starting retained upload purge", slog.Time("cutoff", cutoff))

	purged, err := s.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("retained upload purge failed",
			slog.Int("purged_before_failure", purged),
			slog.Any("error", err))
		return
	}
	s.logger.Info("retained upload purge completed", slog.Int("purged", purged))
}
