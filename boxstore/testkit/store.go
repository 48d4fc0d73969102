// Package testkit holds the conformance suite every boxstore.Store
// implementation runs.
package testkit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/params"
)

// NewStore constructs a fresh, empty Store for a test.
// The returned Store MUST be isolated from other tests.
type NewStore func(t *testing.T) boxstore.Store

func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()
	ctx := context.Background()
	key := codec.AssetIDToBoxName(123)

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := append(make([]byte, 51), `{"name":"Test"}`...)

		if err := s.Put(ctx, key, want); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, key, []byte("first")); err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		if err := s.Put(ctx, key, []byte("second")); err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "second" {
			t.Fatalf("Get after overwrite: got %q want %q", got, "second")
		}
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		s := newStore(t)
		in := []byte("value")
		if err := s.Put(ctx, key, in); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		in[0] = 'X'
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		got[1] = 'Y'
		again, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(2) failed: %v", err)
		}
		if string(again) != "value" {
			t.Fatalf("stored value aliased caller memory: %q", again)
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, key, nil); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Get: got %d bytes want 0", len(got))
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		s := newStore(t)
		missing := codec.AssetIDToBoxName(999)

		ok, err := s.Has(ctx, missing)
		if err != nil {
			t.Fatalf("Has failed: %v", err)
		}
		if ok {
			t.Fatalf("Has returned true for missing key")
		}
		if _, err := s.Get(ctx, missing); !boxstore.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}
		if err := s.Delete(ctx, missing); !boxstore.IsNotFound(err) {
			t.Fatalf("Delete missing: got err=%v want ErrNotFound", err)
		}

		if err := s.Put(ctx, missing, []byte("x")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		ok, err = s.Has(ctx, missing)
		if err != nil || !ok {
			t.Fatalf("Has after Put: got %v, %v", ok, err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := s.Delete(ctx, key); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := s.Get(ctx, key); !boxstore.IsNotFound(err) {
			t.Fatalf("Get after Delete: got err=%v want ErrNotFound", err)
		}
	})

	t.Run("RejectOversize", func(t *testing.T) {
		s := newStore(t)
		if err := s.Put(ctx, key, make([]byte, params.MaxBoxSize)); err != nil {
			t.Fatalf("Put at limit failed: %v", err)
		}
		err := s.Put(ctx, key, make([]byte, params.MaxBoxSize+1))
		if err == nil {
			t.Fatalf("Put over limit succeeded")
		}
		if !errors.Is(err, boxstore.ErrValueTooLarge) {
			t.Fatalf("Put over limit: got %v want ErrValueTooLarge", err)
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		s := newStore(t)
		a, b := codec.AssetIDToBoxName(1), codec.AssetIDToBoxName(1<<56)
		if err := s.Put(ctx, a, []byte("a")); err != nil {
			t.Fatalf("Put(a) failed: %v", err)
		}
		if err := s.Put(ctx, b, []byte("b")); err != nil {
			t.Fatalf("Put(b) failed: %v", err)
		}
		got, err := s.Get(ctx, a)
		if err != nil || string(got) != "a" {
			t.Fatalf("Get(a): got %q, %v", got, err)
		}
		if l, ok := s.(boxstore.Lister); ok {
			keys, err := l.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 2 || keys[0] != a || keys[1] != b {
				t.Fatalf("Keys: got %v", keys)
			}
		}
	})
}
