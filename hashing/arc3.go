package hashing

import (
	"encoding/base64"
	"encoding/json"
	"unicode/utf8"

	"xdao.co/arc89/arcerr"
)

// ARC3MetadataHash computes the ARC-3 metadata hash of a JSON metadata file.
//
// Without an "extra_metadata" member (or when the document is not an object)
// the hash is SHA-256 of the file bytes. With one, it must be a base64 string
// e and the hash is
//
//	SHA-512/256(ARC3AMTag || SHA-512/256(ARC3AMJTag || file) || decode(e))
func ARC3MetadataHash(file []byte) (Hash, error) {
	if !utf8.Valid(file) {
		return Hash{}, arcerr.New(arcerr.KindEncoding, "ARC3-HASH-001", "metadata is not valid UTF-8")
	}
	if !json.Valid(file) {
		return Hash{}, arcerr.New(arcerr.KindEncoding, "ARC3-HASH-002", "metadata is not valid JSON")
	}
	var doc any
	if err := json.Unmarshal(file, &doc); err != nil {
		return Hash{}, arcerr.Wrap(arcerr.KindEncoding, "ARC3-HASH-002", "metadata is not valid JSON", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return SHA256(file), nil
	}
	raw, ok := obj["extra_metadata"]
	if !ok {
		return SHA256(file), nil
	}
	s, ok := raw.(string)
	if !ok {
		return Hash{}, arcerr.New(arcerr.KindType, "ARC3-HASH-003", "extra_metadata must be a string")
	}
	extra, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Hash{}, arcerr.Wrap(arcerr.KindType, "ARC3-HASH-004", "extra_metadata is not valid base64", err)
	}
	inner := SHA512_256([]byte(ARC3AMJTag), file)
	return SHA512_256([]byte(ARC3AMTag), inner[:], extra), nil
}
