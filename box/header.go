// Package box is the binary record codec: the fixed-layout metadata header,
// the JSON body that follows it, and the parsed on-chain record.
//
// Record layout at default parameters:
//
//	offset  size  field
//	0       1     identifiers
//	1       1     reversible flags
//	2       1     irreversible flags
//	3       32    metadata hash
//	35      8     last modified round (big-endian)
//	43      8     deprecated by asset id (big-endian, 0 = not deprecated)
//	51      ...   body
//
// Field offsets never move. A larger configured header size only adds opaque
// bytes between the deprecated-by field and the body.
package box

import (
	"encoding/binary"

	"xdao.co/arc89/flags"
	"xdao.co/arc89/hashing"
)

// Field offsets.
const (
	offIdentifiers  = 0
	offReversible   = 1
	offIrreversible = 2
	offHash         = 3
	offLastModified = offHash + hashing.Size
	offDeprecatedBy = offLastModified + 8

	// HeaderLen is the minimum known header length: every fixed field.
	HeaderLen = offDeprecatedBy + 8
)

// MetadataHeader is the fixed prefix of a record.
type MetadataHeader struct {
	Identifiers       flags.Identifiers
	Flags             flags.MetadataFlags
	MetadataHash      hashing.Hash
	LastModifiedRound uint64
	DeprecatedBy      uint64
}

// Bytes emits the HeaderLen-byte layout.
func (h MetadataHeader) Bytes() []byte {
	b := make([]byte, HeaderLen)
	h.put(b)
	return b
}

func (h MetadataHeader) put(b []byte) {
	b[offIdentifiers] = h.Identifiers.Byte()
	b[offReversible] = h.Flags.Reversible.Byte()
	b[offIrreversible] = h.Flags.Irreversible.Byte()
	copy(b[offHash:offLastModified], h.MetadataHash[:])
	binary.BigEndian.PutUint64(b[offLastModified:offDeprecatedBy], h.LastModifiedRound)
	binary.BigEndian.PutUint64(b[offDeprecatedBy:HeaderLen], h.DeprecatedBy)
}

// readHeader decodes the fixed fields; b must hold at least HeaderLen bytes.
func readHeader(b []byte) MetadataHeader {
	var h MetadataHeader
	h.Identifiers = flags.Identifiers(b[offIdentifiers])
	h.Flags = flags.NewMetadataFlags(b[offReversible], b[offIrreversible])
	copy(h.MetadataHash[:], b[offHash:offLastModified])
	h.LastModifiedRound = binary.BigEndian.Uint64(b[offLastModified:offDeprecatedBy])
	h.DeprecatedBy = binary.BigEndian.Uint64(b[offDeprecatedBy:HeaderLen])
	return h
}

// IsDeprecated reports whether another asset supersedes this record.
func (h MetadataHeader) IsDeprecated() bool { return h.DeprecatedBy != 0 }
