// Package cache provides a time-bounded cache in front of the secret store.
//
// A cached value is never older than the configured TTL. Failed reads are not
// cached, and concurrent misses for the same secret share a single store read.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	secretsDomain "github.com/allisson/blog/internal/secrets/domain"
)

// Reader reads a single field of a secret document.
type Reader interface {
	GetSecret(ctx context.Context, path, key string) (string, error)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Store caches secrets read from an underlying Reader for a fixed TTL.
type Store struct {
	next  Reader
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[secretsDomain.Ref]entry
}

// New wraps next with a cache. A non-positive ttl disables caching and next is
// returned unchanged.
func New(next Reader, ttl time.Duration) Reader {
	if ttl <= 0 {
		return next
	}
	return newStore(next, ttl)
}

func newStore(next Reader, ttl time.Duration) *Store {
	return &Store{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[secretsDomain.Ref]entry),
	}
}

// GetSecret returns the cached value when fresh, otherwise reads through.
// Concurrent misses share one read that is detached from any single caller's
// cancellation; a cancelled caller stops waiting without failing the others.
func (s *Store) GetSecret(ctx context.Context, path, key string) (string, error) {
	ref := secretsDomain.Ref{Path: path, Key: key}
	if value, ok := s.lookup(ref); ok {
		return value, nil
	}

	readCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(ref.String(), func() (any, error) {
		if value, ok := s.lookup(ref); ok {
			return value, nil
		}

		value, err := s.next.GetSecret(readCtx, path, key)
		if err != nil {
			return "", err
		}

		s.mu.Lock()
		s.entries[ref] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
		s.mu.Unlock()

		return value, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Purge drops every cached value, forcing the next reads to hit the store.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}

func (s *Store) lookup(ref secretsDomain.Ref) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[ref]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}
