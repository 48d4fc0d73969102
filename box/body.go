package box

import (
	"bytes"

	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/cidutil"
	"xdao.co/arc89/jsonmeta"
	"xdao.co/arc89/paging"
	"xdao.co/arc89/params"
)

// MetadataBody is the JSON payload of a record. It owns its bytes and is
// never mutated; every accessor derives its result from the raw bytes.
type MetadataBody struct {
	raw []byte
}

// NewMetadataBody copies b into a body.
func NewMetadataBody(b []byte) MetadataBody {
	return MetadataBody{raw: append([]byte(nil), b...)}
}

// EncodeMetadataBody canonically encodes o into a body.
func EncodeMetadataBody(o *jsonmeta.Object) (MetadataBody, error) {
	b, err := jsonmeta.Encode(o)
	if err != nil {
		return MetadataBody{}, err
	}
	return MetadataBody{raw: b}, nil
}

// Bytes returns a copy of the raw body.
func (b MetadataBody) Bytes() []byte { return append([]byte(nil), b.raw...) }

func (b MetadataBody) Size() int { return len(b.raw) }

func (b MetadataBody) IsEmpty() bool { return len(b.raw) == 0 }

// IsShort reports whether the body fits p's short-metadata threshold.
func (b MetadataBody) IsShort(p params.RegistryParameters) bool { return p.IsShort(len(b.raw)) }

// Pages splits a copy of the body into hashing pages.
func (b MetadataBody) Pages(pageSize int) ([][]byte, error) {
	return paging.Paginate(b.Bytes(), pageSize)
}

func (b MetadataBody) TotalPages(pageSize int) (int, error) {
	return paging.PageCount(len(b.raw), pageSize)
}

// Page returns a copy of page i.
func (b MetadataBody) Page(i, pageSize int) ([]byte, error) {
	n, err := b.TotalPages(pageSize)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, arcerr.Newf(arcerr.KindRange, "ARC89-BOX-030", "page %d out of range [0, %d)", i, n)
	}
	start := i * pageSize
	end := min(start+pageSize, len(b.raw))
	return append([]byte(nil), b.raw[start:end]...), nil
}

// JSON decodes the body.
func (b MetadataBody) JSON() (*jsonmeta.Object, error) { return jsonmeta.Decode(b.raw) }

// CID is the IPFS CIDv1 (raw, sha2-256) of the body.
func (b MetadataBody) CID() string { return cidutil.CIDv1RawSHA256(b.raw) }

func (b MetadataBody) Equal(o MetadataBody) bool { return bytes.Equal(b.raw, o.raw) }
