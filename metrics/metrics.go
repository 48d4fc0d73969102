// Package metrics exposes Prometheus metrics for the box store daemon.
package metrics

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/cached"
	"xdao.co/arc89/codec"
)

const namespace = "arc89"

// Store operation results.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics holds the daemon's collectors.
type Metrics struct {
	registry prometheus.Registerer

	RPCTotal    *prometheus.CounterVec   // arc89_rpc_requests_total{method,code}
	RPCDuration *prometheus.HistogramVec // arc89_rpc_request_duration_seconds{method}

	StoreOps   *prometheus.CounterVec // arc89_store_operations_total{op,result}
	StoreBytes *prometheus.CounterVec // arc89_store_bytes_total{op}
}

// New registers the collectors with reg, or with the default registerer
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RPCTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Box store RPCs by method and status code",
		}, []string{"method", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "Box store RPC duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		StoreOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Record store operations by kind and result",
		}, []string{"op", "result"}),
		StoreBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_bytes_total",
			Help:      "Record value bytes read and written",
		}, []string{"op"}),
	}
}

// UnaryServerInterceptor records every unary RPC.
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		method := path.Base(info.FullMethod)
		m.RPCTotal.WithLabelValues(method, status.Code(err).String()).Inc()
		m.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return resp, err
	}
}

// RegisterCache exports the hit and miss counters of a read cache.
func (m *Metrics) RegisterCache(c *cached.Store) error {
	hits := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Record cache hits",
	}, func() float64 { h, _ := c.Stats(); return float64(h) })
	misses := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Record cache misses",
	}, func() float64 { _, mi := c.Stats(); return float64(mi) })
	entries := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Records currently cached",
	}, func() float64 { return float64(c.Len()) })
	for _, col := range []prometheus.Collector{hits, misses, entries} {
		if err := m.registry.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// InstrumentStore counts the operations of s. Keys on the result fails with
// boxstore.ErrNotListable when s cannot list.
func (m *Metrics) InstrumentStore(s boxstore.Store) boxstore.Store {
	return &instrumented{next: s, m: m}
}

type instrumented struct {
	next boxstore.Store
	m    *Metrics
}

func (s *instrumented) record(op string, err error) {
	result := ResultOK
	switch {
	case boxstore.IsNotFound(err):
		result = ResultNotFound
	case err != nil:
		result = ResultError
	}
	s.m.StoreOps.WithLabelValues(op, result).Inc()
}

func (s *instrumented) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	b, err := s.next.Get(ctx, key)
	s.record("get", err)
	if err == nil {
		s.m.StoreBytes.WithLabelValues("get").Add(float64(len(b)))
	}
	return b, err
}

func (s *instrumented) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	err := s.next.Put(ctx, key, value)
	s.record("put", err)
	if err == nil {
		s.m.StoreBytes.WithLabelValues("put").Add(float64(len(value)))
	}
	return err
}

func (s *instrumented) Delete(ctx context.Context, key codec.BoxName) error {
	err := s.next.Delete(ctx, key)
	s.record("delete", err)
	return err
}

func (s *instrumented) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	ok, err := s.next.Has(ctx, key)
	s.record("has", err)
	return ok, err
}

func (s *instrumented) Keys(ctx context.Context) ([]codec.BoxName, error) {
	l, ok := s.next.(boxstore.Lister)
	if !ok {
		return nil, boxstore.ErrNotListable
	}
	keys, err := l.Keys(ctx)
	s.record("keys", err)
	return keys, err
}
