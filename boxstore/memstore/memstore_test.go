package memstore

import (
	"context"
	"testing"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/testkit"
	"xdao.co/arc89/codec"
)

func TestMemstore_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) boxstore.Store {
		return New()
	})
}

func TestMemstore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var s Store
	if err := s.Put(ctx, codec.AssetIDToBoxName(1), []byte("x")); err == nil {
		t.Fatalf("Put with canceled context succeeded")
	}
	if s.Len() != 0 {
		t.Fatalf("Len: got %d want 0", s.Len())
	}
}
