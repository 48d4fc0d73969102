// Package boxstore is the record-store boundary: a key-value store of record
// values keyed by 8-byte box names, as the ledger exposes them.
package boxstore

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"xdao.co/arc89/codec"
	"xdao.co/arc89/params"
)

// Store holds record values.
//
// Contract:
// - Get MUST return ErrNotFound when the key is absent.
// - Get MUST return bytes the caller may keep and modify.
// - Put overwrites; records are mutable, unlike content-addressed objects.
// - Put MUST reject values larger than params.MaxBoxSize with ErrValueTooLarge.
// - Delete MUST return ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key codec.BoxName) ([]byte, error)
	Put(ctx context.Context, key codec.BoxName, value []byte) error
	Delete(ctx context.Context, key codec.BoxName) error
	Has(ctx context.Context, key codec.BoxName) (bool, error)
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// Keys returns every key in ascending byte order.
	Keys(ctx context.Context) ([]codec.BoxName, error)
}

// CheckValue enforces the ledger's box size limit.
func CheckValue(value []byte) error {
	if len(value) > params.MaxBoxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrValueTooLarge, len(value), params.MaxBoxSize)
	}
	return nil
}

// ListKeys merges the keys of every store that implements Lister, in
// ascending order without duplicates.
func ListKeys(ctx context.Context, stores ...Store) ([]codec.BoxName, error) {
	seen := make(map[codec.BoxName]struct{})
	listed := false
	for _, s := range stores {
		l, ok := s.(Lister)
		if !ok {
			continue
		}
		listed = true
		keys, err := l.Keys(ctx)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			seen[k] = struct{}{}
		}
	}
	if !listed {
		return nil, ErrNotListable
	}
	out := make([]codec.BoxName, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b codec.BoxName) int { return bytes.Compare(a[:], b[:]) })
	return out, nil
}
