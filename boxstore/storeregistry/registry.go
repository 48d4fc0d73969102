// Package storeregistry lets binaries open record stores by backend name.
//
// In Go, "plugins" are linked at build time: a backend registers itself via
// init(), and is enabled in a binary by importing the backend package (often
// as a blank import).
package storeregistry

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"xdao.co/arc89/boxstore"
)

// Usage restricts which programs should accept a given backend.
type Usage uint8

const (
	// UsageCLI marks backends the arc89 CLI may open.
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks backends arc89-boxd may serve.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }

// Options are backend-specific string settings, usually taken from the
// configuration file.
type Options map[string]string

// String returns the named option or def.
func (o Options) String(name, def string) string {
	if v, ok := o[name]; ok && v != "" {
		return v
	}
	return def
}

// Duration parses the named option as a time.Duration.
func (o Options) Duration(name string, def time.Duration) (time.Duration, error) {
	v, ok := o[name]
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", name, err)
	}
	return d, nil
}

// Int parses the named option as an int.
func (o Options) Int(name string, def int) (int, error) {
	v, ok := o[name]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", name, err)
	}
	return n, nil
}

// Backend opens one kind of boxstore.Store.
type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// Open constructs the store. It returns an optional close function.
	Open func(opts Options) (boxstore.Store, func() error, error)
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register registers a backend.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("storeregistry: backend name is required")
	}
	if b.Open == nil {
		return fmt.Errorf("storeregistry: backend %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("storeregistry: backend %q missing Usage", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[b.Name]; exists {
		return fmt.Errorf("storeregistry: backend %q already registered", b.Name)
	}
	backends[b.Name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns backends matching usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns backend names matching usage, sorted.
func Names(usage Usage) []string {
	bs := List(usage)
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// Known reports whether name is registered for usage.
func Known(name string, usage Usage) bool {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	return ok && b.Usage.allows(usage)
}

// Open opens the named backend if it exists and matches usage.
func Open(name string, usage Usage, opts Options) (boxstore.Store, func() error, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("backend %q not supported in this binary", name)
	}
	return b.Open(opts)
}
