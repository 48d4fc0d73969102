// Package memstore is an in-memory boxstore.Store.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
)

// Store is a mutex-guarded map of record values. The zero value is ready to
// use.
type Store struct {
	mu   sync.RWMutex
	data map[codec.BoxName][]byte
}

var (
	_ boxstore.Store  = (*Store)(nil)
	_ boxstore.Lister = (*Store)(nil)
)

func New() *Store { return &Store{} }

func (s *Store) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, boxstore.ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (s *Store) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := boxstore.CheckValue(value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[codec.BoxName][]byte)
	}
	s.data[key] = append([]byte{}, value...)
	return nil
}

func (s *Store) Delete(ctx context.Context, key codec.BoxName) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return boxstore.ErrNotFound
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

func (s *Store) Keys(ctx context.Context) ([]codec.BoxName, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	keys := make([]codec.BoxName, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i][:], keys[j][:]) < 0 })
	return keys, nil
}

// Len is the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
