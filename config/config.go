// Package config reads the YAML configuration shared by the arc89 binaries
// and opens the record store it describes.
//
// Backends are opened through storeregistry; a binary still has to link the
// backends it wants with blank imports.
//
// Example:
//
//	log_level: info
//	network: testnet
//	app_id: 752790676
//	store:
//	  write_policy: all
//	  cache_size: 1024
//	  backends:
//	    - name: localfs
//	      options: {dir: /var/lib/arc89}
//	    - name: grpc
//	      id: mirror
//	      options: {target: 10.0.0.2:7788, timeout: 2s}
//	listen: 127.0.0.1:7788
//	resolver:
//	  mode: strict
//	parameters:
//	  page_size: 1024
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/cached"
	"xdao.co/arc89/boxstore/storeregistry"
	"xdao.co/arc89/params"
	"xdao.co/arc89/resolver"
)

// DefaultListen is the daemon's gRPC listen address when none is configured.
const DefaultListen = "127.0.0.1:7788"

// Write policies.
const (
	WriteFirst = "first"
	WriteAll   = "all"
)

// Config is the top-level configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Network is the ARC-90 netauth of the registry; empty means mainnet.
	Network string `yaml:"network"`
	AppID   uint64 `yaml:"app_id"`

	Store StoreConfig `yaml:"store"`

	// Listen is the daemon's gRPC address.
	Listen string `yaml:"listen"`
	// MetricsListen is the daemon's Prometheus HTTP address; empty disables it.
	MetricsListen string `yaml:"metrics_listen"`

	Resolver ResolverConfig `yaml:"resolver"`

	// Parameters overrides the compiled defaults field by field. Parameters
	// read from the contract take precedence over both.
	Parameters ParameterOverrides `yaml:"parameters"`
}

// StoreConfig describes the record store.
//
// With WriteFirst (the default) writes go to the first backend and reads
// fall back in order. WriteAll writes every backend.
type StoreConfig struct {
	WritePolicy string          `yaml:"write_policy"`
	Backends    []BackendConfig `yaml:"backends"`

	// CacheSize > 0 puts an LRU read cache of that many records in front
	// of the store.
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// BackendConfig names one storeregistry backend.
type BackendConfig struct {
	Name string `yaml:"name"`
	// ID is an optional alias used in logs and replication results. If
	// empty, Name is used.
	ID      string            `yaml:"id"`
	Options map[string]string `yaml:"options"`
}

func (b BackendConfig) id() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

type ResolverConfig struct {
	Mode           string `yaml:"mode"`
	VerifyOverride bool   `yaml:"verify_override"`
}

// ParameterOverrides holds optional replacements for RegistryParameters
// fields. Nil fields keep their default.
type ParameterOverrides struct {
	KeySize               *int    `yaml:"key_size"`
	HeaderSize            *int    `yaml:"header_size"`
	MaxMetadataSize       *int    `yaml:"max_metadata_size"`
	ShortMetadataSize     *int    `yaml:"short_metadata_size"`
	PageSize              *int    `yaml:"page_size"`
	FirstPayloadMaxSize   *int    `yaml:"first_payload_max_size"`
	ExtraPayloadMaxSize   *int    `yaml:"extra_payload_max_size"`
	ReplacePayloadMaxSize *int    `yaml:"replace_payload_max_size"`
	FlatMbr               *uint64 `yaml:"flat_mbr"`
	ByteMbr               *uint64 `yaml:"byte_mbr"`
}

// Apply returns p with the set overrides applied.
func (o ParameterOverrides) Apply(p params.RegistryParameters) params.RegistryParameters {
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&p.KeySize, o.KeySize)
	setInt(&p.HeaderSize, o.HeaderSize)
	setInt(&p.MaxMetadataSize, o.MaxMetadataSize)
	setInt(&p.ShortMetadataSize, o.ShortMetadataSize)
	setInt(&p.PageSize, o.PageSize)
	setInt(&p.FirstPayloadMaxSize, o.FirstPayloadMaxSize)
	setInt(&p.ExtraPayloadMaxSize, o.ExtraPayloadMaxSize)
	setInt(&p.ReplacePayloadMaxSize, o.ReplacePayloadMaxSize)
	if o.FlatMbr != nil {
		p.FlatMbr = *o.FlatMbr
	}
	if o.ByteMbr != nil {
		p.ByteMbr = *o.ByteMbr
	}
	return p
}

// Default returns a configuration with an in-memory store.
func Default() Config {
	return Config{
		LogLevel: zerolog.InfoLevel.String(),
		Store: StoreConfig{
			Backends: []BackendConfig{{Name: "memory"}},
		},
		Listen: DefaultListen,
	}
}

// Load reads path, applies defaults and validates the result.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	cfg.Store.Backends = nil
	if err := decodeStrict(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeStrict(b []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = zerolog.InfoLevel.String()
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if len(c.Store.Backends) == 0 {
		c.Store.Backends = []BackendConfig{{Name: "memory"}}
	}
}

// Validate checks the configuration without opening anything.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if _, ok := resolver.ParseMode(c.Resolver.Mode); !ok {
		return fmt.Errorf("config: invalid resolver mode %q", c.Resolver.Mode)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("config: parameters: %w", err)
	}
	return nil
}

// Validate checks backend names and the write policy.
func (s StoreConfig) Validate() error {
	if len(s.Backends) == 0 {
		return errors.New("config: at least one store backend is required")
	}
	seen := make(map[string]struct{}, len(s.Backends))
	for _, b := range s.Backends {
		if b.Name == "" {
			return errors.New("config: store backend name is required")
		}
		if _, ok := seen[b.id()]; ok {
			return fmt.Errorf("config: duplicate store backend id %q", b.id())
		}
		seen[b.id()] = struct{}{}
	}
	switch s.WritePolicy {
	case "", WriteFirst, WriteAll:
	default:
		return fmt.Errorf("config: invalid write_policy %q", s.WritePolicy)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("config: cache_size must be non-negative, got %d", s.CacheSize)
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("config: cache_ttl must be non-negative, got %s", s.CacheTTL)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// Params returns the compiled defaults with the file's overrides applied.
func (c Config) Params() params.RegistryParameters {
	return c.Parameters.Apply(params.Default())
}

// Deployment returns the configured registry instance. It is zero when no
// app id is set.
func (c Config) Deployment() params.Deployment {
	if c.AppID == 0 {
		return params.Deployment{}
	}
	return params.Deployment{Network: c.Network, AppID: c.AppID}
}

// ResolverOptions returns the configured resolver options.
func (c Config) ResolverOptions() resolver.Options {
	m, _ := resolver.ParseMode(c.Resolver.Mode)
	return resolver.Options{Mode: m, VerifyOverride: c.Resolver.VerifyOverride}
}

// OpenStore opens the configured backends, combines them per the write
// policy and adds the read cache. The returned close function closes every
// backend in reverse order.
func (s StoreConfig) OpenStore(usage storeregistry.Usage) (boxstore.Store, func() error, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	named := make([]boxstore.NamedStore, 0, len(s.Backends))
	closers := make([]func() error, 0, len(s.Backends))
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, b := range s.Backends {
		st, closeFn, err := storeregistry.Open(b.Name, usage, b.Options)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("config: open backend %q: %w", b.id(), err)
		}
		named = append(named, boxstore.NamedStore{Name: b.id(), Store: st})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	var st boxstore.Store
	switch {
	case len(named) == 1:
		st = named[0].Store
	case s.WritePolicy == WriteAll:
		st = boxstore.Replicating{Backends: named}
	default:
		stores := make([]boxstore.Store, 0, len(named))
		for _, n := range named {
			stores = append(stores, n.Store)
		}
		st = boxstore.Multi{Stores: stores}
	}

	if s.CacheSize > 0 {
		c, err := cached.New(st, s.CacheSize, s.CacheTTL)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		st = c
	}
	return st, closeAll, nil
}
