package boxstore

import (
	"context"
	"fmt"

	"xdao.co/arc89/codec"
)

// NamedStore associates a Store with a stable backend name.
type NamedStore struct {
	Name  string
	Store Store
}

// Replicating writes to all configured backends and reads with ordered
// fallback.
//
// A write stops at the first failing backend; backends before it keep the new
// value. Use PutAll to learn which backends were written.
type Replicating struct {
	Backends []NamedStore
}

var (
	_ Store  = Replicating{}
	_ Lister = Replicating{}
)

// PutAll writes value to every backend in order and returns the names of the
// backends that accepted it.
func (r Replicating) PutAll(ctx context.Context, key codec.BoxName, value []byte) ([]string, error) {
	if err := CheckValue(value); err != nil {
		return nil, err
	}
	if len(r.Backends) == 0 {
		return nil, ErrNoBackends
	}
	written := make([]string, 0, len(r.Backends))
	for _, b := range r.Backends {
		if b.Store == nil {
			return written, fmt.Errorf("boxstore: nil store for backend %q", b.Name)
		}
		if err := b.Store.Put(ctx, key, value); err != nil {
			return written, fmt.Errorf("boxstore: backend %q: %w", b.Name, err)
		}
		written = append(written, b.Name)
	}
	return written, nil
}

func (r Replicating) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	_, err := r.PutAll(ctx, key, value)
	return err
}

// Delete removes key from every backend. It reports ErrNotFound only when no
// backend held the key.
func (r Replicating) Delete(ctx context.Context, key codec.BoxName) error {
	if len(r.Backends) == 0 {
		return ErrNoBackends
	}
	var deleted bool
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		err := b.Store.Delete(ctx, key)
		switch {
		case err == nil:
			deleted = true
		case IsNotFound(err):
		default:
			return fmt.Errorf("boxstore: backend %q: %w", b.Name, err)
		}
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (r Replicating) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		out, err := b.Store.Get(ctx, key)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r Replicating) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		ok, err := b.Store.Has(ctx, key)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Keys lists the union of keys of the backends that can enumerate them.
func (r Replicating) Keys(ctx context.Context) ([]codec.BoxName, error) {
	stores := make([]Store, 0, len(r.Backends))
	for _, b := range r.Backends {
		if b.Store != nil {
			stores = append(stores, b.Store)
		}
	}
	return ListKeys(ctx, stores...)
}
