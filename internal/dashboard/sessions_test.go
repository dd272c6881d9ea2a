// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ghostdash/internal/cache"
	"github.com/olegiv/ghostdash/internal/model"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mem.Close() })
	return NewSessions(mem, time.Hour)
}

func TestSessions_GetFresh(t *testing.T) {
	s := newTestSessions(t)

	st, err := s.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, st.Loaded)
	assert.Equal(t, model.EntityUser, st.ActiveTab)
}

func TestSessions_UpdatePersists(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "tok", func(st *State) error {
		st.Users = []model.User{{ID: "1", Name: "Ann"}}
		st.SetSearch(model.EntityUser, "an")
		st.Loaded = true
		return nil
	})
	require.NoError(t, err)

	st, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, st.Loaded)
	assert.Equal(t, "an", st.UserSearch)
	assert.Len(t, st.Users, 1)

	other, err := s.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, other.Loaded)
}

func TestSessions_UpdateErrorDoesNotSave(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "tok", func(st *State) error {
		st.Loaded = true
		return errors.New("abort")
	})
	require.Error(t, err)

	st, _ := s.Get(ctx, "tok")
	assert.False(t, st.Loaded)
}

func TestSessions_Reset(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	_, _ = s.Update(ctx, "tok", func(st *State) error {
		st.Loaded = true
		return nil
	})
	require.NoError(t, s.Reset(ctx, "tok"))

	st, _ := s.Get(ctx, "tok")
	assert.False(t, st.Loaded)
}

func TestSessions_ConcurrentUpdatesSerialized(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, "tok", func(st *State) error {
				st.Admins = append(st.Admins, model.Admin{ID: "x"})
				return nil
			})
		}()
	}
	wg.Wait()

	st, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, st.Admins, 20)
	assert.Equal(t, 0, s.locks.size())
}
