package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/grpcstore"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/config"
)

func TestServe(t *testing.T) {
	cfg := config.Default()
	cfg.Store.CacheSize = 8

	lis := bufconn.Listen(1 << 20)
	reg := prometheus.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, lis, reg) }()

	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	client, err := grpcstore.Dial("passthrough:///bufnet", grpcstore.DialOptions{
		Timeout: 2 * time.Second,
		Options: []grpc.DialOption{grpc.WithContextDialer(dialer)},
	})
	require.NoError(t, err)
	defer client.Close()

	key := codec.AssetIDToBoxName(42)
	require.NoError(t, client.Put(context.Background(), key, []byte("record")))
	got, err := client.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("record"), got)
	_, err = client.Get(context.Background(), codec.AssetIDToBoxName(43))
	assert.ErrorIs(t, err, boxstore.ErrNotFound)

	n, err := testutil.GatherAndCount(reg, "arc89_rpc_requests_total", "arc89_cache_misses_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n, "Put OK, Get OK, Get NotFound, cache misses")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_BadStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backends = []config.BackendConfig{{Name: "nope"}}
	err := serve(context.Background(), cfg, bufconn.Listen(1024), prometheus.NewRegistry())
	assert.ErrorContains(t, err, "nope")
}
