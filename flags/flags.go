// Package flags models the bit-packed capability bytes of a record header.
//
// Bit positions are part of the wire format and must match the verifying
// side exactly.
package flags

// SetBit returns bits with the bits selected by mask set when value is true,
// or cleared when value is false. Other bits are preserved.
func SetBit(bits, mask byte, value bool) byte {
	if value {
		return bits | mask
	}
	return bits &^ mask
}

// Identifiers bits.
const (
	IdentifierShort byte = 1 << 7
)

// Identifiers is the first header byte. Only the short bit is assigned.
type Identifiers byte

func (i Identifiers) Byte() byte { return byte(i) }

// Short reports whether the body fits the short-metadata threshold.
func (i Identifiers) Short() bool { return byte(i)&IdentifierShort != 0 }

func (i Identifiers) WithShort(v bool) Identifiers {
	return Identifiers(SetBit(byte(i), IdentifierShort, v))
}

// Reversible flag bits. Any of them can be toggled after creation.
const (
	ReversibleARC20     byte = 1 << 0
	ReversibleARC62     byte = 1 << 1
	ReversibleReserved2 byte = 1 << 2
	ReversibleReserved3 byte = 1 << 3
	ReversibleReserved4 byte = 1 << 4
	ReversibleReserved5 byte = 1 << 5
	ReversibleReserved6 byte = 1 << 6
	ReversibleReserved7 byte = 1 << 7
)

// ReversibleFlags is the second header byte.
type ReversibleFlags byte

func (f ReversibleFlags) Byte() byte { return byte(f) }

func (f ReversibleFlags) Has(mask byte) bool { return byte(f)&mask == mask }

func (f ReversibleFlags) With(mask byte, v bool) ReversibleFlags {
	return ReversibleFlags(SetBit(byte(f), mask, v))
}

func (f ReversibleFlags) ARC20() bool     { return f.Has(ReversibleARC20) }
func (f ReversibleFlags) ARC62() bool     { return f.Has(ReversibleARC62) }
func (f ReversibleFlags) Reserved2() bool { return f.Has(ReversibleReserved2) }
func (f ReversibleFlags) Reserved3() bool { return f.Has(ReversibleReserved3) }
func (f ReversibleFlags) Reserved4() bool { return f.Has(ReversibleReserved4) }
func (f ReversibleFlags) Reserved5() bool { return f.Has(ReversibleReserved5) }
func (f ReversibleFlags) Reserved6() bool { return f.Has(ReversibleReserved6) }
func (f ReversibleFlags) Reserved7() bool { return f.Has(ReversibleReserved7) }

// Irreversible flag bits. Once set they stay set.
const (
	IrreversibleARC3      byte = 1 << 0
	IrreversibleARC89     byte = 1 << 1
	IrreversibleReserved2 byte = 1 << 2
	IrreversibleReserved3 byte = 1 << 3
	IrreversibleReserved4 byte = 1 << 4
	IrreversibleReserved5 byte = 1 << 5
	IrreversibleReserved6 byte = 1 << 6
	IrreversibleImmutable byte = 1 << 7
)

// CreationOnly is the set of irreversible bits that may be asserted only when
// the record is created.
const CreationOnly = IrreversibleARC3 | IrreversibleARC89

// IrreversibleFlags is the third header byte.
type IrreversibleFlags byte

func (f IrreversibleFlags) Byte() byte { return byte(f) }

func (f IrreversibleFlags) Has(mask byte) bool { return byte(f)&mask == mask }

func (f IrreversibleFlags) ARC3() bool      { return f.Has(IrreversibleARC3) }
func (f IrreversibleFlags) ARC89() bool     { return f.Has(IrreversibleARC89) }
func (f IrreversibleFlags) Reserved2() bool { return f.Has(IrreversibleReserved2) }
func (f IrreversibleFlags) Reserved3() bool { return f.Has(IrreversibleReserved3) }
func (f IrreversibleFlags) Reserved4() bool { return f.Has(IrreversibleReserved4) }
func (f IrreversibleFlags) Reserved5() bool { return f.Has(IrreversibleReserved5) }
func (f IrreversibleFlags) Reserved6() bool { return f.Has(IrreversibleReserved6) }
func (f IrreversibleFlags) Immutable() bool { return f.Has(IrreversibleImmutable) }

// Set asserts the bits in mask on an existing record. Creation-only bits in
// mask are ignored; use AtCreation for those. Irreversible bits are never
// cleared.
func (f IrreversibleFlags) Set(mask byte) IrreversibleFlags {
	return IrreversibleFlags(byte(f) | (mask &^ CreationOnly))
}

// AtCreation builds the irreversible byte of a record being created.
func AtCreation(mask byte) IrreversibleFlags { return IrreversibleFlags(mask) }

// MetadataFlags pairs the two flag bytes of a record.
type MetadataFlags struct {
	Reversible   ReversibleFlags
	Irreversible IrreversibleFlags
}

// NewMetadataFlags builds flags from raw bytes.
func NewMetadataFlags(reversible, irreversible byte) MetadataFlags {
	return MetadataFlags{Reversible: ReversibleFlags(reversible), Irreversible: IrreversibleFlags(irreversible)}
}

var reversibleNames = [8]string{"arc20", "arc62", "reserved2", "reserved3", "reserved4", "reserved5", "reserved6", "reserved7"}

var irreversibleNames = [8]string{"arc3", "arc89", "reserved2", "reserved3", "reserved4", "reserved5", "reserved6", "immutable"}

// Names lists the set reversible flags, lowest bit first.
func (f ReversibleFlags) Names() []string { return names(byte(f), &reversibleNames) }

// Names lists the set irreversible flags, lowest bit first.
func (f IrreversibleFlags) Names() []string { return names(byte(f), &irreversibleNames) }

func names(b byte, table *[8]string) []string {
	out := []string{}
	for i := 0; i < 8; i++ {
		if b&(1<<i) != 0 {
			out = append(out, table[i])
		}
	}
	return out
}
