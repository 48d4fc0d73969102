// Package hashing implements the domain-separated hashes that bind a record
// header and its paged body into a single 32-byte metadata hash, plus the
// ARC-3 "am" hash.
//
// Every construction prepends a fixed domain tag so that header, page and
// metadata digests can never be confused with one another.
package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"

	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/paging"
)

// Size is the length of every digest produced by this package.
const Size = 32

// Domain tags.
const (
	HeaderTag   = "arc0089/header"
	PageTag     = "arc0089/page"
	MetadataTag = "arc0089/am"
	ARC3AMTag   = "arc0003/am"
	ARC3AMJTag  = "arc0003/amj"
)

// Hash is a 256-bit digest.
type Hash [Size]byte

// IsZero reports whether every byte of h is zero.
func (h Hash) IsZero() bool { return h == Hash{} }

// Hex returns the lowercase hex form of h.
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// Bytes returns a copy of h.
func (h Hash) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h[:])
	return out
}

// HashFromBytes copies a 32-byte digest out of b.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, arcerr.Newf(arcerr.KindRange, "ARC89-HASH-001", "hash must be %d bytes, got %d", Size, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// SHA512_256 returns the SHA-512/256 digest of the concatenation of parts.
func SHA512_256(parts ...[]byte) Hash {
	d := sha512.New512_256()
	for _, p := range parts {
		d.Write(p)
	}
	var h Hash
	d.Sum(h[:0])
	return h
}

// SHA256 returns the SHA-256 digest of b.
func SHA256(b []byte) Hash { return sha256.Sum256(b) }

// HeaderHash hashes the header fields of a record:
//
//	HeaderTag || box-name(assetID) || identifiers || reversible || irreversible || uint16(metadataSize)
func HeaderHash(assetID uint64, identifiers, reversible, irreversible byte, metadataSize int) (Hash, error) {
	if metadataSize < 0 || metadataSize > 0xFFFF {
		return Hash{}, arcerr.Newf(arcerr.KindRange, "ARC89-HASH-010", "metadata size out of uint16 range: %d", metadataSize)
	}
	name := codec.AssetIDToBoxName(assetID)
	var buf [codec.BoxNameSize + 3 + 2]byte
	copy(buf[:], name[:])
	buf[8] = identifiers
	buf[9] = reversible
	buf[10] = irreversible
	binary.BigEndian.PutUint16(buf[11:], uint16(metadataSize))
	return SHA512_256([]byte(HeaderTag), buf[:]), nil
}

// PageHash hashes one page of a record body:
//
//	PageTag || box-name(assetID) || pageIndex || uint16(len(content)) || content
func PageHash(assetID uint64, pageIndex int, content []byte) (Hash, error) {
	if pageIndex < 0 || pageIndex > 0xFF {
		return Hash{}, arcerr.Newf(arcerr.KindRange, "ARC89-HASH-011", "page index out of byte range: %d", pageIndex)
	}
	if len(content) > 0xFFFF {
		return Hash{}, arcerr.Newf(arcerr.KindRange, "ARC89-HASH-012", "page length out of uint16 range: %d", len(content))
	}
	name := codec.AssetIDToBoxName(assetID)
	var buf [codec.BoxNameSize + 1 + 2]byte
	copy(buf[:], name[:])
	buf[8] = byte(pageIndex)
	binary.BigEndian.PutUint16(buf[9:], uint16(len(content)))
	return SHA512_256([]byte(PageTag), buf[:], content), nil
}

// MetadataHash is the record hash stored in the header:
//
//	MetadataTag || HeaderHash || PageHash(0) || PageHash(1) || ...
//
// An empty body contributes no page hashes.
func MetadataHash(assetID uint64, identifiers, reversible, irreversible byte, metadata []byte, pageSize int) (Hash, error) {
	header, err := HeaderHash(assetID, identifiers, reversible, irreversible, len(metadata))
	if err != nil {
		return Hash{}, err
	}
	pages, err := paging.Paginate(metadata, pageSize)
	if err != nil {
		return Hash{}, err
	}
	d := sha512.New512_256()
	d.Write([]byte(MetadataTag))
	d.Write(header[:])
	for i, p := range pages {
		ph, err := PageHash(assetID, i, p)
		if err != nil {
			return Hash{}, err
		}
		d.Write(ph[:])
	}
	var h Hash
	d.Sum(h[:0])
	return h, nil
}
