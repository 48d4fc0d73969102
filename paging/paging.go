// Package paging splits metadata payloads into hashing pages and into
// transport chunks.
//
// Pages and chunks are different things: a page is the hashing granularity of
// a record body and must agree byte-for-byte with the verifying side, a chunk
// is a slice of a write payload sized to fit one ledger call.
package paging

import (
	"xdao.co/arc89/arcerr"
)

// Paginate splits data into pages of exactly pageSize bytes, the last page
// holding the remainder. Empty data yields zero pages.
//
// Returned pages alias data with capped capacity; appending to a page never
// writes into its neighbour.
func Paginate(data []byte, pageSize int) ([][]byte, error) {
	if pageSize <= 0 {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-PAGE-001", "page size must be positive, got %d", pageSize)
	}
	return split(data, pageSize), nil
}

// PageCount returns how many pages Paginate would yield for size bytes.
func PageCount(size, pageSize int) (int, error) {
	if pageSize <= 0 {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-PAGE-001", "page size must be positive, got %d", pageSize)
	}
	if size < 0 {
		return 0, arcerr.Newf(arcerr.KindRange, "ARC89-PAGE-002", "size must be non-negative, got %d", size)
	}
	return (size + pageSize - 1) / pageSize, nil
}

// ChunkMetadataPayload splits a create/replace payload into one head chunk of
// up to headMaxSize bytes followed by extra chunks of up to extraMaxSize bytes.
// Empty data yields a single empty head chunk.
func ChunkMetadataPayload(data []byte, headMaxSize, extraMaxSize int) ([][]byte, error) {
	if headMaxSize <= 0 {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-CHUNK-001", "head chunk size must be positive, got %d", headMaxSize)
	}
	if extraMaxSize <= 0 {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-CHUNK-002", "extra chunk size must be positive, got %d", extraMaxSize)
	}
	if len(data) <= headMaxSize {
		return [][]byte{data[:len(data):len(data)]}, nil
	}
	out := [][]byte{data[:headMaxSize:headMaxSize]}
	return append(out, split(data[headMaxSize:], extraMaxSize)...), nil
}

// ChunksForSlice splits a replace-slice payload into chunks of up to
// maxChunkSize bytes. Empty payload yields one empty chunk.
func ChunksForSlice(payload []byte, maxChunkSize int) ([][]byte, error) {
	if maxChunkSize <= 0 {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-CHUNK-003", "chunk size must be positive, got %d", maxChunkSize)
	}
	if len(payload) == 0 {
		return [][]byte{payload[:0:0]}, nil
	}
	return split(payload, maxChunkSize), nil
}

func split(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return [][]byte{}
	}
	out := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		out = append(out, data[start:end:end])
	}
	return out
}
