package params

import (
	"math/bits"

	"xdao.co/arc89/arcerr"
)

// Sign tags an MbrDelta. The byte values match the registry contract.
type Sign uint8

const (
	SignNull     Sign = 0
	SignPositive Sign = 1
	SignNegative Sign = 2
)

func (s Sign) String() string {
	switch s {
	case SignNull:
		return "null"
	case SignPositive:
		return "positive"
	case SignNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// MbrDelta is a signed change of the minimum balance requirement.
//
// It has three states: zero, positive(amount) and negative(amount). The zero
// state always carries a zero amount and no other state carries one, so two
// deltas are equal exactly when they move the balance by the same amount.
type MbrDelta struct {
	sign   Sign
	amount uint64
}

// ZeroDelta is the delta that changes nothing.
var ZeroDelta = MbrDelta{}

// Increase returns a positive delta; an amount of zero yields ZeroDelta.
func Increase(amount uint64) MbrDelta { return newDelta(SignPositive, amount) }

// Decrease returns a negative delta; an amount of zero yields ZeroDelta.
func Decrease(amount uint64) MbrDelta { return newDelta(SignNegative, amount) }

func newDelta(sign Sign, amount uint64) MbrDelta {
	if amount == 0 || sign == SignNull {
		return ZeroDelta
	}
	return MbrDelta{sign: sign, amount: amount}
}

// MbrDeltaFromTuple decodes the (sign, amount) pair returned by the contract.
// A null sign reads as zero whatever the amount.
func MbrDeltaFromTuple(sign uint8, amount uint64) (MbrDelta, error) {
	switch s := Sign(sign); s {
	case SignNull, SignPositive, SignNegative:
		return newDelta(s, amount), nil
	default:
		return MbrDelta{}, arcerr.Newf(arcerr.KindRange, "ARC89-MBR-003", "unknown MBR delta sign %d", sign)
	}
}

func (d MbrDelta) Sign() Sign       { return d.sign }
func (d MbrDelta) Amount() uint64   { return d.amount }
func (d MbrDelta) IsZero() bool     { return d.sign == SignNull }
func (d MbrDelta) IsPositive() bool { return d.sign == SignPositive }
func (d MbrDelta) IsNegative() bool { return d.sign == SignNegative }

// Signed returns the delta as a signed integer. Amounts beyond the int64
// range saturate.
func (d MbrDelta) Signed() int64 {
	const maxInt64 = 1<<63 - 1
	a := d.amount
	if a > maxInt64 {
		a = maxInt64
	}
	switch d.sign {
	case SignPositive:
		return int64(a)
	case SignNegative:
		return -int64(a)
	default:
		return 0
	}
}

// MbrForBox is the minimum balance requirement of a record whose body is
// metadataSize bytes: FlatMbr + ByteMbr * (KeySize + HeaderSize + metadataSize).
func (p RegistryParameters) MbrForBox(metadataSize int) (uint64, error) {
	if metadataSize < 0 {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-MBR-001", "metadata size must be non-negative, got %d", metadataSize)
	}
	hi, bytesMbr := bits.Mul64(p.ByteMbr, uint64(p.KeySize+p.HeaderSize+metadataSize))
	total, carry := bits.Add64(p.FlatMbr, bytesMbr, 0)
	if hi != 0 || carry != 0 {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-MBR-003",
			"minimum balance for %d bytes overflows uint64", metadataSize)
	}
	return total, nil
}

// MbrDeltaRequest describes a size transition. OldMetadataSize is nil when
// the record is being created.
type MbrDeltaRequest struct {
	OldMetadataSize *int
	NewMetadataSize int
	Delete          bool
}

// Size is a convenience for filling MbrDeltaRequest.OldMetadataSize.
func Size(n int) *int { return &n }

// MbrDelta computes the balance change of a create, resize or delete.
func (p RegistryParameters) MbrDelta(req MbrDeltaRequest) (MbrDelta, error) {
	if req.NewMetadataSize < 0 {
		return MbrDelta{}, arcerr.Newf(arcerr.KindRange, "ARC89-MBR-001",
			"new metadata size must be non-negative, got %d", req.NewMetadataSize)
	}
	if req.Delete {
		if req.OldMetadataSize == nil {
			return MbrDelta{}, arcerr.New(arcerr.KindInvariant, "ARC89-MBR-002", "delete requires the old metadata size")
		}
		if req.NewMetadataSize != 0 {
			return MbrDelta{}, arcerr.Newf(arcerr.KindInvariant, "ARC89-MBR-002",
				"delete requires a new metadata size of 0, got %d", req.NewMetadataSize)
		}
		old, err := p.MbrForBox(*req.OldMetadataSize)
		if err != nil {
			return MbrDelta{}, err
		}
		return Decrease(old), nil
	}
	next, err := p.MbrForBox(req.NewMetadataSize)
	if err != nil {
		return MbrDelta{}, err
	}
	if req.OldMetadataSize == nil {
		return Increase(next), nil
	}
	old, err := p.MbrForBox(*req.OldMetadataSize)
	if err != nil {
		return MbrDelta{}, err
	}
	switch {
	case next > old:
		return Increase(next - old), nil
	case next < old:
		return Decrease(old - next), nil
	default:
		return ZeroDelta, nil
	}
}
