package codec

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"xdao.co/arc89/arcerr"
)

// BoxNameSize is the length of a record key.
const BoxNameSize = 8

// BoxName is the record key of an asset: its identifier as 8 big-endian bytes.
type BoxName [BoxNameSize]byte

// AssetIDToBoxName encodes an asset identifier as its record key.
func AssetIDToBoxName(id uint64) BoxName {
	var n BoxName
	binary.BigEndian.PutUint64(n[:], id)
	return n
}

// BoxNameToAssetID decodes a record key. The input must be exactly 8 bytes.
func BoxNameToAssetID(b []byte) (uint64, error) {
	if len(b) != BoxNameSize {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-CODEC-010",
			"box name must be %d bytes, got %d", BoxNameSize, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// BoxNameFromBytes copies a record key out of b.
func BoxNameFromBytes(b []byte) (BoxName, error) {
	var n BoxName
	if len(b) != BoxNameSize {
		return n, arcerr.Newf(arcerr.KindRange, "ARC89-CODEC-010",
			"box name must be %d bytes, got %d", BoxNameSize, len(b))
	}
	copy(n[:], b)
	return n, nil
}

// AssetID returns the asset identifier the key encodes.
func (n BoxName) AssetID() uint64 { return binary.BigEndian.Uint64(n[:]) }

// Bytes returns a copy of the key.
func (n BoxName) Bytes() []byte { return clone(n[:]) }

// Hex returns the lowercase hex form of the key.
func (n BoxName) Hex() string { return hex.EncodeToString(n[:]) }

func (n BoxName) String() string { return n.Hex() }

// ParseAssetID parses a decimal asset identifier. Negative values and values
// above 2^64-1 are range errors.
func ParseAssetID(s string) (uint64, error) {
	if s == "" {
		return 0, arcerr.New(arcerr.KindRange, "ARC89-CODEC-011", "empty asset id")
	}
	if s[0] == '-' {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-CODEC-011", "asset id must be non-negative: %s", s)
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, arcerr.Wrap(arcerr.KindRange, "ARC89-CODEC-011", "asset id out of uint64 range", err)
	}
	return id, nil
}

// AssetIDFromInt converts a signed integer to an asset identifier, rejecting
// negative values.
func AssetIDFromInt(v int64) (uint64, error) {
	if v < 0 {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-CODEC-011", "asset id must be non-negative: %d", v)
	}
	return uint64(v), nil
}
