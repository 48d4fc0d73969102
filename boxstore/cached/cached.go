// Package cached puts an LRU read cache in front of a boxstore.Store.
package cached

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
)

type entry struct {
	v []byte
	t time.Time
}

// Store caches successful reads of the wrapped store. Put and Delete write
// through and drop the cached entry, so a read after a write always reaches
// the backend once.
//
// A read that overlaps any write is served but not cached, so a value read
// before the backend applied the write can never outlive it.
//
// Only values are cached; misses always go to the backend.
type Store struct {
	next  boxstore.Store
	ttl   time.Duration
	cache *lru.Cache[codec.BoxName, entry]

	mu       sync.Mutex
	writes   uint64 // bumped when a write starts and when it ends
	inflight int

	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ boxstore.Store = (*Store)(nil)

// New wraps next with a cache of size entries. A positive ttl bounds how
// long an entry is served; zero keeps entries until evicted.
func New(next boxstore.Store, size int, ttl time.Duration) (*Store, error) {
	if next == nil {
		return nil, fmt.Errorf("cached: nil backend")
	}
	c, err := lru.New[codec.BoxName, entry](size)
	if err != nil {
		return nil, fmt.Errorf("cached: %w", err)
	}
	return &Store{next: next, ttl: ttl, cache: c}, nil
}

func (s *Store) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	if v, ok := s.lookup(key); ok {
		s.hits.Add(1)
		return v, nil
	}
	s.misses.Add(1)

	s.mu.Lock()
	seq := s.writes
	s.mu.Unlock()

	v, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.writes == seq && s.inflight == 0 {
		s.cache.Add(key, entry{v: bytes.Clone(v), t: time.Now()})
	}
	s.mu.Unlock()
	return v, nil
}

func (s *Store) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	return s.write(key, func() error { return s.next.Put(ctx, key, value) })
}

func (s *Store) Delete(ctx context.Context, key codec.BoxName) error {
	return s.write(key, func() error { return s.next.Delete(ctx, key) })
}

func (s *Store) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	if _, ok := s.lookup(key); ok {
		return true, nil
	}
	return s.next.Has(ctx, key)
}

// lookup returns a live cached value, dropping an expired one.
func (s *Store) lookup(key codec.BoxName) ([]byte, bool) {
	e, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(e.t) >= s.ttl {
		s.cache.Remove(key)
		return nil, false
	}
	return bytes.Clone(e.v), true
}

func (s *Store) write(key codec.BoxName, fn func() error) error {
	s.mu.Lock()
	s.writes++
	s.inflight++
	s.cache.Remove(key)
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.writes++
	s.inflight--
	s.cache.Remove(key)
	s.mu.Unlock()
	return err
}

// Keys delegates to the backend when it can list.
func (s *Store) Keys(ctx context.Context) ([]codec.BoxName, error) {
	l, ok := s.next.(boxstore.Lister)
	if !ok {
		return nil, boxstore.ErrNotListable
	}
	return l.Keys(ctx)
}

// Stats reports cache hits and misses since construction.
func (s *Store) Stats() (hits, misses uint64) { return s.hits.Load(), s.misses.Load() }

// Len is the number of cached entries.
func (s *Store) Len() int { return s.cache.Len() }
