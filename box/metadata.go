package box

import (
	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/flags"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/jsonmeta"
	"xdao.co/arc89/params"
)

// AssetMetadata is a record before submission.
type AssetMetadata struct {
	AssetID      uint64
	Body         MetadataBody
	Flags        flags.MetadataFlags
	DeprecatedBy uint64
}

// NewAssetMetadataFromJSON canonically encodes o and checks it against p.
// Records flagged ARC-3 must pass the ARC-3 structural checks.
func NewAssetMetadataFromJSON(assetID uint64, o *jsonmeta.Object, f flags.MetadataFlags, p params.RegistryParameters) (AssetMetadata, error) {
	if f.Irreversible.ARC3() {
		if err := jsonmeta.ValidateARC3(o); err != nil {
			return AssetMetadata{}, err
		}
	}
	body, err := EncodeMetadataBody(o)
	if err != nil {
		return AssetMetadata{}, err
	}
	md := AssetMetadata{AssetID: assetID, Body: body, Flags: f}
	if err := md.CheckSize(p); err != nil {
		return AssetMetadata{}, err
	}
	return md, nil
}

// CheckSize fails when the body exceeds p's max metadata size.
func (m AssetMetadata) CheckSize(p params.RegistryParameters) error {
	if m.Body.Size() > p.MaxMetadataSize {
		return arcerr.Newf(arcerr.KindRange, "ARC89-BOX-020",
			"metadata size %d exceeds max metadata size %d", m.Body.Size(), p.MaxMetadataSize)
	}
	return nil
}

// Identifiers derives the identifiers byte the registry will store.
func (m AssetMetadata) Identifiers(p params.RegistryParameters) flags.Identifiers {
	return flags.Identifiers(0).WithShort(m.Body.IsShort(p))
}

// HeaderHash is the header hash of m under p.
func (m AssetMetadata) HeaderHash(p params.RegistryParameters) (hashing.Hash, error) {
	return hashing.HeaderHash(m.AssetID, m.Identifiers(p).Byte(),
		m.Flags.Reversible.Byte(), m.Flags.Irreversible.Byte(), m.Body.Size())
}

// MetadataHash is the hash the registry will store for m under p.
func (m AssetMetadata) MetadataHash(p params.RegistryParameters) (hashing.Hash, error) {
	return hashing.MetadataHash(m.AssetID, m.Identifiers(p).Byte(),
		m.Flags.Reversible.Byte(), m.Flags.Irreversible.Byte(), m.Body.raw, p.PageSize)
}

// MbrDelta is the balance change of writing m over a record of oldSize bytes;
// a nil oldSize means the record is being created.
func (m AssetMetadata) MbrDelta(p params.RegistryParameters, oldSize *int) (params.MbrDelta, error) {
	return p.MbrDelta(params.MbrDeltaRequest{OldMetadataSize: oldSize, NewMetadataSize: m.Body.Size()})
}

// Header builds the header the registry would store for m at round.
func (m AssetMetadata) Header(p params.RegistryParameters, round uint64) (MetadataHeader, error) {
	h, err := m.MetadataHash(p)
	if err != nil {
		return MetadataHeader{}, err
	}
	return MetadataHeader{
		Identifiers:       m.Identifiers(p),
		Flags:             m.Flags,
		MetadataHash:      h,
		LastModifiedRound: round,
		DeprecatedBy:      m.DeprecatedBy,
	}, nil
}
