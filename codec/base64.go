package codec

import (
	"encoding/base64"

	"xdao.co/arc89/arcerr"
)

// B64Encode encodes with the standard padded alphabet.
func B64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// B64Decode decodes the standard padded alphabet. Non-canonical padding bits
// are rejected.
func B64Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.KindEncoding, "ARC89-CODEC-020", "invalid base64", err)
	}
	return b, nil
}

// B64URLEncode encodes with the URL-safe padded alphabet.
func B64URLEncode(b []byte) string { return base64.URLEncoding.EncodeToString(b) }

// B64URLDecode decodes the URL-safe padded alphabet.
func B64URLDecode(s string) ([]byte, error) {
	b, err := base64.URLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.KindEncoding, "ARC89-CODEC-021", "invalid base64url", err)
	}
	return b, nil
}
