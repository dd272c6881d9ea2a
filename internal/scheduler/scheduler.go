// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/ghostdash/internal/model"
)

// DefaultRetentionSchedule runs the event purge once a day at 03:00.
const DefaultRetentionSchedule = "0 3 * * *"

// EventPurger deletes activity events older than a given age.
type EventPurger interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config configures the scheduler.
type Config struct {
	// Schedule is a standard five-field cron expression.
	Schedule string
	// Retention is how long events are kept. Zero disables the purge.
	Retention time.Duration
}

// Scheduler handles scheduled tasks like purging old activity events.
type Scheduler struct {
	cron   *cron.Cron
	events EventPurger
	cfg    Config
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(events EventPurger, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultRetentionSchedule
	}
	return &Scheduler{
		cron:   cron.New(),
		events: events,
		cfg:    cfg,
		logger: logger,
	}
}

// ValidateSchedule reports whether spec is a valid standard cron expression.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.Retention > 0 && s.events != nil {
		_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
			if _, err := s.PurgeEvents(context.Background()); err != nil {
				s.logger.Error("failed to purge old events", "error", err, "category", model.EventCategorySystem)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling event purge: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PurgeEvents deletes events older than the retention period.
func (s *Scheduler) PurgeEvents(ctx context.Context) (int64, error) {
	if s.cfg.Retention <= 0 || s.events == nil {
		return 0, nil
	}

	removed, err := s.events.DeleteOldEvents(ctx, s.cfg.Retention)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("purged old events", "count", removed, "retention", s.cfg.Retention.String())
	}
	return removed, nil
}
