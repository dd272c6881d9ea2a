// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls   int
	gotAge  time.Duration
	removed int64
	err     error
}

func (f *fakePurger) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.gotAge = olderThan
	return f.removed, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_DefaultSchedule(t *testing.T) {
	s := New(nil, Config{}, testLogger())
	require.NotNil(t, s)
	assert.NotNil(t, s.cron)
	assert.Equal(t, DefaultRetentionSchedule, s.cfg.Schedule)
}

func TestScheduler_StartStop(t *testing.T) {
	p := &fakePurger{}
	s := New(p, Config{Retention: 24 * time.Hour}, testLogger())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestScheduler_StartWithoutRetention(t *testing.T) {
	s := New(&fakePurger{}, Config{}, testLogger())

	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	s.Stop()
}

func TestScheduler_StartInvalidSchedule(t *testing.T) {
	s := New(&fakePurger{}, Config{Schedule: "not a schedule", Retention: time.Hour}, testLogger())
	assert.Error(t, s.Start())
}

func TestScheduler_PurgeEvents(t *testing.T) {
	p := &fakePurger{removed: 3}
	s := New(p, Config{Retention: 30 * 24 * time.Hour}, testLogger())

	n, err := s.PurgeEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 30*24*time.Hour, p.gotAge)
}

func TestScheduler_PurgeEvents_Disabled(t *testing.T) {
	p := &fakePurger{}
	s := New(p, Config{}, testLogger())

	n, err := s.PurgeEvents(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, p.calls)
}

func TestScheduler_PurgeEvents_Error(t *testing.T) {
	p := &fakePurger{err: errors.New("locked")}
	s := New(p, Config{Retention: time.Hour}, testLogger())

	_, err := s.PurgeEvents(context.Background())
	assert.Error(t, err)
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{DefaultRetentionSchedule, false},
		{"@daily", false},
		{"*/15 * * * *", false},
		{"", true},
		{"61 * * * *", true},
		{"daily", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := ValidateSchedule(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
