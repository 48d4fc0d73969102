package hashing

import (
	"path/filepath"
	"testing"

	"xdao.co/arc89/internal/vectors"
)

func TestConformanceVectors_ARC3(t *testing.T) {
	dir := filepath.Join("..", vectors.Dir)
	cases, err := vectors.ARC3Hashes(dir)
	if err != nil {
		t.Fatalf("load vectors: %v", err)
	}
	for _, v := range cases {
		t.Run(v.Name, func(t *testing.T) {
			file, err := vectors.ReadFile(dir, v.File)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			h, err := ARC3MetadataHash(file)
			if err != nil {
				t.Fatalf("ARC3MetadataHash: %v", err)
			}
			if h.Hex() != v.Hash {
				t.Fatalf("hash: got %s want %s", h.Hex(), v.Hash)
			}
		})
	}
}
