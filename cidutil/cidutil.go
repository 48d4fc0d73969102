// Package cidutil derives IPFS content identifiers for metadata bodies so a
// record can be cross-checked against an ipfs:// copy of the same JSON.
package cidutil

import (
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/arc89/arcerr"
)

// IPFSScheme prefixes IPFS gateway-independent URLs.
const IPFSScheme = "ipfs://"

// CIDv1RawSHA256 returns the CIDv1 string of data using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	c, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return ""
	}
	return c.String()
}

// CIDv1RawSHA256CID returns the CIDv1 (raw + sha2-256) of data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, arcerr.Wrap(arcerr.KindEncoding, "ARC89-CID-001", "multihash failed", err)
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ParseIPFSURL extracts the root CID of an ipfs:// URL. A bare CID string is
// accepted too. Path components after the CID are ignored.
func ParseIPFSURL(s string) (cid.Cid, error) {
	rest := strings.TrimPrefix(s, IPFSScheme)
	root, _, _ := strings.Cut(rest, "/")
	c, err := cid.Decode(root)
	if err != nil {
		return cid.Undef, arcerr.Wrap(arcerr.KindParse, "ARC89-CID-002", "invalid IPFS CID", err)
	}
	return c, nil
}

// Matches reports whether data hashes to c under c's own prefix (version,
// codec and multihash). CIDs using a codec other than raw still match when
// their multihash agrees, which is how a raw-leaf file CID relates to its
// bytes.
func Matches(c cid.Cid, data []byte) bool {
	if !c.Defined() {
		return false
	}
	got, err := c.Prefix().Sum(data)
	if err != nil {
		return false
	}
	return got.Hash().HexString() == c.Hash().HexString()
}
