package box

import (
	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/params"
)

// AssetMetadataBox is a parsed on-chain record. Build one with ParseBox or
// ParseBoxWithLimits.
type AssetMetadataBox struct {
	AssetID uint64
	Header  MetadataHeader
	Body    MetadataBody

	headerSize int
	pageSize   int
}

// ParseBox parses a record value of assetID against p.
func ParseBox(assetID uint64, value []byte, p params.RegistryParameters) (*AssetMetadataBox, error) {
	b, err := parse(assetID, value, p.HeaderSize, p.MaxMetadataSize)
	if err != nil {
		return nil, err
	}
	b.pageSize = p.PageSize
	return b, nil
}

// ParseBoxWithLimits parses a record value with an explicit header size and
// body limit. Hashes derived from the result use the default page size.
//
// A headerSize below HeaderLen is rejected: the fixed fields would overlap
// the body. Earlier registry clients skipped the minimum-length check for
// such headers and accepted them.
func ParseBoxWithLimits(assetID uint64, value []byte, headerSize, maxMetadataSize int) (*AssetMetadataBox, error) {
	b, err := parse(assetID, value, headerSize, maxMetadataSize)
	if err != nil {
		return nil, err
	}
	b.pageSize = params.DefaultPageSize
	return b, nil
}

func parse(assetID uint64, value []byte, headerSize, maxMetadataSize int) (*AssetMetadataBox, error) {
	if headerSize < HeaderLen {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-BOX-003",
			"header size %d is below the minimum header length %d", headerSize, HeaderLen)
	}
	if maxMetadataSize < 0 {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-BOX-004",
			"max metadata size must be non-negative, got %d", maxMetadataSize)
	}
	if len(value) < headerSize {
		return nil, arcerr.Newf(arcerr.KindParse, "ARC89-BOX-001",
			"box value too small: %d bytes, header needs %d", len(value), headerSize)
	}
	body := value[headerSize:]
	if len(body) > maxMetadataSize {
		return nil, arcerr.Newf(arcerr.KindParse, "ARC89-BOX-002",
			"metadata size %d exceeds max metadata size %d", len(body), maxMetadataSize)
	}
	return &AssetMetadataBox{
		AssetID:    assetID,
		Header:     readHeader(value),
		Body:       NewMetadataBody(body),
		headerSize: headerSize,
	}, nil
}

// EncodeBox emits a record value: the header, zero padding up to headerSize
// and the body. It is the inverse of ParseBox.
func EncodeBox(h MetadataHeader, body MetadataBody, headerSize int) ([]byte, error) {
	if headerSize < HeaderLen {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-BOX-003",
			"header size %d is below the minimum header length %d", headerSize, HeaderLen)
	}
	if headerSize+body.Size() > params.MaxBoxSize {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-BOX-005",
			"box value of %d bytes exceeds the %d-byte limit", headerSize+body.Size(), params.MaxBoxSize)
	}
	out := make([]byte, headerSize+body.Size())
	h.put(out)
	copy(out[headerSize:], body.raw)
	return out, nil
}

// Bytes re-encodes the record with the header size it was parsed with.
func (b *AssetMetadataBox) Bytes() ([]byte, error) {
	return EncodeBox(b.Header, b.Body, b.headerSize)
}

func (b *AssetMetadataBox) IsDeprecated() bool { return b.Header.IsDeprecated() }

// PageSize is the page size hashes of b are computed with.
func (b *AssetMetadataBox) PageSize() int { return b.pageSize }

// ExpectedMetadataHash returns the hash the header should carry.
//
// A non-zero override (the asset's own metadata hash field) is returned as is,
// which is only legal for immutable records. A zero override means none and
// the hash is recomputed from the body.
func (b *AssetMetadataBox) ExpectedMetadataHash(override hashing.Hash) (hashing.Hash, error) {
	if !override.IsZero() {
		if !b.Header.Flags.Irreversible.Immutable() {
			return hashing.Hash{}, arcerr.New(arcerr.KindInvariant, "ARC89-BOX-010",
				"hash override requires the immutable flag")
		}
		return override, nil
	}
	return hashing.MetadataHash(
		b.AssetID,
		b.Header.Identifiers.Byte(),
		b.Header.Flags.Reversible.Byte(),
		b.Header.Flags.Irreversible.Byte(),
		b.Body.raw,
		b.pageSize,
	)
}

// HashMatches compares the stored header hash with the expected one. With
// skipOnOverride and a non-zero override it trusts the override and reports
// true without recomputing anything.
func (b *AssetMetadataBox) HashMatches(override hashing.Hash, skipOnOverride bool) (bool, error) {
	if skipOnOverride && !override.IsZero() {
		return true, nil
	}
	want, err := b.ExpectedMetadataHash(override)
	if err != nil {
		return false, err
	}
	return want == b.Header.MetadataHash, nil
}

// AsAssetMetadata converts the record into its write-side form. The last
// modified round is dropped; only the ledger assigns it.
func (b *AssetMetadataBox) AsAssetMetadata() AssetMetadata {
	return AssetMetadata{
		AssetID:      b.AssetID,
		Body:         b.Body,
		Flags:        b.Header.Flags,
		DeprecatedBy: b.Header.DeprecatedBy,
	}
}
