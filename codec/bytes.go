package codec

import (
	"xdao.co/arc89/arcerr"
)

// View is a window into a larger buffer: Length bytes starting at Offset.
type View struct {
	Data   []byte
	Offset int
	Length int
}

// ToBytes coerces a byte-sequence-like value into a freshly allocated []byte.
//
// Accepted shapes:
//   - []byte
//   - BoxName, [8]byte, [32]byte (and pointers to the arrays)
//   - View
//   - []int, where every element is in 0..255
//
// Strings and every other shape fail with a KindType error.
func ToBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return clone(b), nil
	case BoxName:
		return clone(b[:]), nil
	case [8]byte:
		return clone(b[:]), nil
	case [32]byte:
		return clone(b[:]), nil
	case *[8]byte:
		if b == nil {
			return nil, arcerr.New(arcerr.KindType, "ARC89-CODEC-002", "nil array pointer")
		}
		return clone(b[:]), nil
	case *[32]byte:
		if b == nil {
			return nil, arcerr.New(arcerr.KindType, "ARC89-CODEC-002", "nil array pointer")
		}
		return clone(b[:]), nil
	case View:
		if b.Offset < 0 || b.Length < 0 || b.Offset > len(b.Data) || b.Length > len(b.Data)-b.Offset {
			return nil, arcerr.Newf(arcerr.KindRange, "ARC89-CODEC-003",
				"view [%d:+%d] out of bounds for %d-byte buffer", b.Offset, b.Length, len(b.Data))
		}
		return clone(b.Data[b.Offset : b.Offset+b.Length]), nil
	case []int:
		out := make([]byte, len(b))
		for i, n := range b {
			if n < 0 || n > 255 {
				return nil, arcerr.Newf(arcerr.KindRange, "ARC89-CODEC-004",
					"element %d out of byte range: %d", i, n)
			}
			out[i] = byte(n)
		}
		return out, nil
	case string:
		return nil, arcerr.New(arcerr.KindType, "ARC89-CODEC-001", "strings are not byte sequences")
	default:
		return nil, arcerr.Newf(arcerr.KindType, "ARC89-CODEC-001", "unsupported byte sequence type %T", v)
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
