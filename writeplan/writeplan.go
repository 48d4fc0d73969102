// Package writeplan turns a record write into the ordered payload chunks and
// the balance change a submitter attaches to its ledger calls. It knows
// nothing about transactions, fees or signing.
package writeplan

import (
	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/box"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/paging"
	"xdao.co/arc89/params"
)

// Op names the registry call a plan feeds.
type Op string

const (
	OpCreate       Op = "create"
	OpReplace      Op = "replace"
	OpReplaceSlice Op = "replace_slice"
	OpDelete       Op = "delete"
)

// Plan is a full-body write: one head call followed by extra calls.
type Plan struct {
	Op      Op
	AssetID uint64
	Head    []byte
	Extra   [][]byte
	// Size is the new body size.
	Size int
	// Delta is the balance change the write causes.
	Delta params.MbrDelta
	// MetadataHash is the hash the registry will store once the write lands.
	MetadataHash hashing.Hash
}

// Calls is the number of ledger calls the plan needs.
func (p Plan) Calls() int { return 1 + len(p.Extra) }

// Create plans the first write of md's record.
func Create(p params.RegistryParameters, md box.AssetMetadata) (Plan, error) {
	return full(p, OpCreate, nil, md)
}

// Replace plans rewriting a record whose current body is oldSize bytes.
func Replace(p params.RegistryParameters, oldSize int, md box.AssetMetadata) (Plan, error) {
	if oldSize < 0 || oldSize > p.MaxMetadataSize {
		return Plan{}, arcerr.Newf(arcerr.KindRange, "ARC89-PLAN-001",
			"current metadata size %d out of range [0, %d]", oldSize, p.MaxMetadataSize)
	}
	return full(p, OpReplace, params.Size(oldSize), md)
}

func full(p params.RegistryParameters, op Op, oldSize *int, md box.AssetMetadata) (Plan, error) {
	if err := md.CheckSize(p); err != nil {
		return Plan{}, err
	}
	chunks, err := paging.ChunkMetadataPayload(md.Body.Bytes(), p.FirstPayloadMaxSize, p.ExtraPayloadMaxSize)
	if err != nil {
		return Plan{}, err
	}
	delta, err := md.MbrDelta(p, oldSize)
	if err != nil {
		return Plan{}, err
	}
	h, err := md.MetadataHash(p)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Op:           op,
		AssetID:      md.AssetID,
		Head:         chunks[0],
		Extra:        chunks[1:],
		Size:         md.Body.Size(),
		Delta:        delta,
		MetadataHash: h,
	}, nil
}

// SliceChunk is one replace-slice call: Data overwrites the body at Offset.
type SliceChunk struct {
	Offset int
	Data   []byte
}

// SlicePlan is an in-place overwrite of part of a body. It never changes the
// body size, so it carries no balance change.
type SlicePlan struct {
	AssetID uint64
	Chunks  []SliceChunk
}

// ReplaceSlice plans overwriting currentSize-byte body of assetID with payload
// starting at offset. The slice must lie inside both the current body and
// p's max metadata size.
func ReplaceSlice(p params.RegistryParameters, assetID uint64, currentSize, offset int, payload []byte) (SlicePlan, error) {
	if offset < 0 {
		return SlicePlan{}, arcerr.Newf(arcerr.KindRange, "ARC89-PLAN-010", "offset must be non-negative, got %d", offset)
	}
	if len(payload) > p.MaxMetadataSize || offset > p.MaxMetadataSize-len(payload) {
		return SlicePlan{}, arcerr.Newf(arcerr.KindRange, "ARC89-PLAN-011",
			"slice of %d bytes at offset %d exceeds max metadata size %d", len(payload), offset, p.MaxMetadataSize)
	}
	end := offset + len(payload)
	if end > currentSize {
		return SlicePlan{}, arcerr.Newf(arcerr.KindInvariant, "ARC89-PLAN-012",
			"slice end %d exceeds current metadata size %d", end, currentSize)
	}
	chunks, err := paging.ChunksForSlice(payload, p.ReplacePayloadMaxSize)
	if err != nil {
		return SlicePlan{}, err
	}
	out := SlicePlan{AssetID: assetID, Chunks: make([]SliceChunk, 0, len(chunks))}
	at := offset
	for _, c := range chunks {
		out.Chunks = append(out.Chunks, SliceChunk{Offset: at, Data: c})
		at += len(c)
	}
	return out, nil
}

// DeletePlan removes a record.
type DeletePlan struct {
	AssetID uint64
	Delta   params.MbrDelta
}

// Delete plans removing assetID's record whose body is oldSize bytes.
func Delete(p params.RegistryParameters, assetID uint64, oldSize int) (DeletePlan, error) {
	delta, err := p.MbrDelta(params.MbrDeltaRequest{OldMetadataSize: params.Size(oldSize), Delete: true})
	if err != nil {
		return DeletePlan{}, err
	}
	return DeletePlan{AssetID: assetID, Delta: delta}, nil
}
