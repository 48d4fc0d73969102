package box

import (
	"bytes"
	"path/filepath"
	"testing"

	"xdao.co/arc89/codec"
	"xdao.co/arc89/flags"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/internal/vectors"
	"xdao.co/arc89/params"
)

var vectorDir = filepath.Join("..", vectors.Dir)

func TestConformanceVectors_Records(t *testing.T) {
	records, err := vectors.Records(vectorDir)
	if err != nil {
		t.Fatalf("load vectors: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("no record vectors")
	}
	for _, v := range records {
		t.Run(v.Name, func(t *testing.T) {
			raw, err := vectors.ReadFile(vectorDir, v.BodyFile)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			p := params.Default()
			p.PageSize = v.PageSize

			md := AssetMetadata{
				AssetID: v.AssetID,
				Body:    NewMetadataBody(raw),
				Flags:   flags.NewMetadataFlags(v.Reversible, v.Irreversible),
			}
			if got := md.Identifiers(p).Byte(); got != v.Identifiers {
				t.Fatalf("identifiers: got %#x want %#x", got, v.Identifiers)
			}
			mh, err := md.MetadataHash(p)
			if err != nil {
				t.Fatalf("MetadataHash: %v", err)
			}
			if mh.Hex() != v.MetadataHash {
				t.Fatalf("metadata hash: got %s want %s", mh.Hex(), v.MetadataHash)
			}
			hh, err := md.HeaderHash(p)
			if err != nil {
				t.Fatalf("HeaderHash: %v", err)
			}
			if hh.Hex() != v.HeaderHash {
				t.Fatalf("header hash: got %s want %s", hh.Hex(), v.HeaderHash)
			}
			pages, err := md.Body.Pages(v.PageSize)
			if err != nil {
				t.Fatalf("Pages: %v", err)
			}
			if len(pages) != len(v.PageHashes) {
				t.Fatalf("pages: got %d want %d", len(pages), len(v.PageHashes))
			}
			for i, pg := range pages {
				ph, err := hashing.PageHash(v.AssetID, i, pg)
				if err != nil {
					t.Fatalf("PageHash(%d): %v", i, err)
				}
				if ph.Hex() != v.PageHashes[i] {
					t.Fatalf("page %d hash: got %s want %s", i, ph.Hex(), v.PageHashes[i])
				}
			}
			if got := md.Body.CID(); got != v.BodyCID {
				t.Fatalf("cid: got %s want %s", got, v.BodyCID)
			}
			if got := codec.AssetIDToBoxName(v.AssetID).Hex(); got != v.BoxName {
				t.Fatalf("box name: got %s want %s", got, v.BoxName)
			}

			if v.BoxFile == "" {
				return
			}
			value, err := vectors.ReadFile(vectorDir, v.BoxFile)
			if err != nil {
				t.Fatalf("read box: %v", err)
			}
			b, err := ParseBox(v.AssetID, value, p)
			if err != nil {
				t.Fatalf("ParseBox: %v", err)
			}
			if b.Header.LastModifiedRound != v.Round || b.Header.DeprecatedBy != v.DeprecatedBy {
				t.Fatalf("header rounds: got %d/%d want %d/%d",
					b.Header.LastModifiedRound, b.Header.DeprecatedBy, v.Round, v.DeprecatedBy)
			}
			ok, err := b.HashMatches(hashing.Hash{}, false)
			if err != nil || !ok {
				t.Fatalf("HashMatches: %v, %v", ok, err)
			}

			h, err := md.Header(p, v.Round)
			if err != nil {
				t.Fatalf("Header: %v", err)
			}
			h.DeprecatedBy = v.DeprecatedBy
			enc, err := EncodeBox(h, md.Body, p.HeaderSize)
			if err != nil {
				t.Fatalf("EncodeBox: %v", err)
			}
			if !bytes.Equal(enc, value) {
				t.Fatalf("encoded box differs from vector")
			}
		})
	}
}
