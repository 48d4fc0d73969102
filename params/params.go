// Package params holds the size and economics constants of a registry
// deployment and the storage-rent (MBR) model built on them.
package params

import (
	"math"

	"xdao.co/arc89/arcerr"
)

// MaxBoxSize is the ledger limit on a record value.
const MaxBoxSize = 32768

// MaxPages is the number of pages addressable by a one-byte page index.
const MaxPages = 256

// MinHeaderSize is the length of the fixed header fields. A larger header
// carries opaque padding before the body.
const MinHeaderSize = 51

// TupleLen is the number of elements in the contract's parameter tuple.
const TupleLen = 10

// Compiled defaults.
const (
	DefaultKeySize               = 8
	DefaultHeaderSize            = 51
	DefaultMaxMetadataSize       = MaxBoxSize - DefaultHeaderSize
	DefaultShortMetadataSize     = 4096
	DefaultPageSize              = 1024
	DefaultFirstPayloadMaxSize   = 2029
	DefaultExtraPayloadMaxSize   = 2034
	DefaultReplacePayloadMaxSize = 2032
	DefaultFlatMbr               = 2500
	DefaultByteMbr               = 400
)

// RegistryParameters is an immutable value object; compare with ==.
type RegistryParameters struct {
	KeySize               int
	HeaderSize            int
	MaxMetadataSize       int
	ShortMetadataSize     int
	PageSize              int
	FirstPayloadMaxSize   int
	ExtraPayloadMaxSize   int
	ReplacePayloadMaxSize int
	FlatMbr               uint64
	ByteMbr               uint64
}

// Default returns the compiled-in parameters.
func Default() RegistryParameters {
	return RegistryParameters{
		KeySize:               DefaultKeySize,
		HeaderSize:            DefaultHeaderSize,
		MaxMetadataSize:       DefaultMaxMetadataSize,
		ShortMetadataSize:     DefaultShortMetadataSize,
		PageSize:              DefaultPageSize,
		FirstPayloadMaxSize:   DefaultFirstPayloadMaxSize,
		ExtraPayloadMaxSize:   DefaultExtraPayloadMaxSize,
		ReplacePayloadMaxSize: DefaultReplacePayloadMaxSize,
		FlatMbr:               DefaultFlatMbr,
		ByteMbr:               DefaultByteMbr,
	}
}

// FromTuple decodes the parameter tuple returned by the registry contract:
//
//	(key_size, header_size, max_metadata_size, short_metadata_size, page_size,
//	 first_payload_max_size, extra_payload_max_size, replace_payload_max_size,
//	 flat_mbr, byte_mbr)
//
// On-chain parameters always take precedence over compiled defaults.
func FromTuple(v []uint64) (RegistryParameters, error) {
	if len(v) != TupleLen {
		return RegistryParameters{}, arcerr.Newf(arcerr.KindRange, "ARC89-PARAM-001",
			"parameter tuple must have %d elements, got %d", TupleLen, len(v))
	}
	sizes := make([]int, 8)
	for i := range sizes {
		if v[i] > math.MaxInt32 {
			return RegistryParameters{}, arcerr.Newf(arcerr.KindRange, "ARC89-PARAM-002",
				"parameter %d out of range: %d", i, v[i])
		}
		sizes[i] = int(v[i])
	}
	p := RegistryParameters{
		KeySize:               sizes[0],
		HeaderSize:            sizes[1],
		MaxMetadataSize:       sizes[2],
		ShortMetadataSize:     sizes[3],
		PageSize:              sizes[4],
		FirstPayloadMaxSize:   sizes[5],
		ExtraPayloadMaxSize:   sizes[6],
		ReplacePayloadMaxSize: sizes[7],
		FlatMbr:               v[8],
		ByteMbr:               v[9],
	}
	if err := p.Validate(); err != nil {
		return RegistryParameters{}, err
	}
	return p, nil
}

// Tuple is the inverse of FromTuple.
func (p RegistryParameters) Tuple() []uint64 {
	return []uint64{
		uint64(p.KeySize),
		uint64(p.HeaderSize),
		uint64(p.MaxMetadataSize),
		uint64(p.ShortMetadataSize),
		uint64(p.PageSize),
		uint64(p.FirstPayloadMaxSize),
		uint64(p.ExtraPayloadMaxSize),
		uint64(p.ReplacePayloadMaxSize),
		p.FlatMbr,
		p.ByteMbr,
	}
}

// Validate checks the parameter invariants.
func (p RegistryParameters) Validate() error {
	sizes := []struct {
		name string
		v    int
	}{
		{"key_size", p.KeySize},
		{"header_size", p.HeaderSize},
		{"max_metadata_size", p.MaxMetadataSize},
		{"short_metadata_size", p.ShortMetadataSize},
		{"page_size", p.PageSize},
		{"first_payload_max_size", p.FirstPayloadMaxSize},
		{"extra_payload_max_size", p.ExtraPayloadMaxSize},
		{"replace_payload_max_size", p.ReplacePayloadMaxSize},
	}
	for _, s := range sizes {
		if s.v < 0 {
			return arcerr.Newf(arcerr.KindRange, "ARC89-PARAM-010", "%s must be non-negative, got %d", s.name, s.v)
		}
	}
	if p.HeaderSize < MinHeaderSize {
		return arcerr.Newf(arcerr.KindRange, "ARC89-PARAM-014",
			"header_size %d is below the fixed header length %d", p.HeaderSize, MinHeaderSize)
	}
	if p.PageSize == 0 {
		return arcerr.New(arcerr.KindRange, "ARC89-PARAM-011", "page_size must be positive")
	}
	if p.HeaderSize > MaxBoxSize || p.MaxMetadataSize > MaxBoxSize-p.HeaderSize {
		return arcerr.Newf(arcerr.KindRange, "ARC89-PARAM-012",
			"max_metadata_size %d exceeds box limit %d minus header %d", p.MaxMetadataSize, MaxBoxSize, p.HeaderSize)
	}
	if pages := (p.MaxMetadataSize + p.PageSize - 1) / p.PageSize; pages > MaxPages {
		return arcerr.Newf(arcerr.KindRange, "ARC89-PARAM-013",
			"max_metadata_size %d needs %d pages of %d bytes, more than %d", p.MaxMetadataSize, pages, p.PageSize, MaxPages)
	}
	return nil
}

// IsShort reports whether a body of size bytes counts as short metadata.
func (p RegistryParameters) IsShort(size int) bool { return size <= p.ShortMetadataSize }

// MaxPageCount is the page count of a maximum-size body.
func (p RegistryParameters) MaxPageCount() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.MaxMetadataSize + p.PageSize - 1) / p.PageSize
}
