// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/olegiv/ghostdash/internal/cache"
)

const stateKeyPrefix = "dashboard:"

// Sessions keeps each viewer's State in a cache, keyed by session.
// Updates to the same key are serialized within this process.
type Sessions struct {
	states *cache.TypedCache[State]
	locks  *keyedMutex
}

// NewSessions creates a state store over c. States expire after ttl of
// inactivity.
func NewSessions(c cache.Cache, ttl time.Duration) *Sessions {
	return &Sessions{
		states: cache.NewTypedCache[State](c, ttl),
		locks:  newKeyedMutex(),
	}
}

// Get returns the stored state for key, or a fresh state when none exists.
func (s *Sessions) Get(ctx context.Context, key string) (*State, error) {
	st, err := s.states.Get(ctx, stateKeyPrefix+key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading dashboard state: %w", err)
	}
	return st, nil
}

// Update loads the state for key, applies fn and saves the result. If fn
// returns an error the state is not saved.
func (s *Sessions) Update(ctx context.Context, key string, fn func(*State) error) (*State, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	st, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.states.Set(ctx, stateKeyPrefix+key, st); err != nil {
		return nil, fmt.Errorf("saving dashboard state: %w", err)
	}
	return st, nil
}

// Reset drops the stored state for key.
func (s *Sessions) Reset(ctx context.Context, key string) error {
	unlock := s.locks.lock(key)
	defer unlock()

	if err := s.states.Delete(ctx, stateKeyPrefix+key); err != nil {
		return fmt.Errorf("resetting dashboard state: %w", err)
	}
	return nil
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
