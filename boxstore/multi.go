package boxstore

import (
	"context"

	"xdao.co/arc89/codec"
)

// Multi provides deterministic, ordered read fallback across stores.
//
// Read order is the slice order in Stores; callers MUST supply a fixed order.
// Put and Delete go to the first store only.
type Multi struct {
	Stores []Store
}

var (
	_ Store  = Multi{}
	_ Lister = Multi{}
)

func (m Multi) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	for _, s := range m.Stores {
		b, err := s.Get(ctx, key)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m Multi) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	if len(m.Stores) == 0 {
		return ErrNoBackends
	}
	return m.Stores[0].Put(ctx, key, value)
}

func (m Multi) Delete(ctx context.Context, key codec.BoxName) error {
	if len(m.Stores) == 0 {
		return ErrNoBackends
	}
	return m.Stores[0].Delete(ctx, key)
}

func (m Multi) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	for _, s := range m.Stores {
		ok, err := s.Has(ctx, key)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Keys lists the union of keys of the stores that can enumerate them.
func (m Multi) Keys(ctx context.Context) ([]codec.BoxName, error) {
	return ListKeys(ctx, m.Stores...)
}
