// Package vectors loads the conformance vectors under
// testdata/conformance/arc89.
package vectors

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is the vector directory relative to the module root.
const Dir = "testdata/conformance/arc89"

// Record is one record vector. BoxFile is empty when the vector uses a page
// size the default header layout cannot carry a record for.
type Record struct {
	Name         string   `json:"name"`
	AssetID      uint64   `json:"asset_id"`
	Reversible   byte     `json:"reversible"`
	Irreversible byte     `json:"irreversible"`
	PageSize     int      `json:"page_size"`
	Round        uint64   `json:"round"`
	DeprecatedBy uint64   `json:"deprecated_by"`
	Identifiers  byte     `json:"identifiers"`
	BodyFile     string   `json:"body_file"`
	BoxFile      string   `json:"box_file"`
	MetadataHash string   `json:"metadata_hash"`
	HeaderHash   string   `json:"header_hash"`
	PageHashes   []string `json:"page_hashes"`
	BodyCID      string   `json:"body_cid"`
	BoxName      string   `json:"box_name"`
}

// ARC3 is one ARC-3 metadata hash vector.
type ARC3 struct {
	Name string `json:"name"`
	File string `json:"file"`
	Hash string `json:"hash"`
}

// Records reads records.json from dir.
func Records(dir string) ([]Record, error) {
	var out []Record
	return out, load(filepath.Join(dir, "records.json"), &out)
}

// ARC3Hashes reads arc3.json from dir.
func ARC3Hashes(dir string) ([]ARC3, error) {
	var out []ARC3
	return out, load(filepath.Join(dir, "arc3.json"), &out)
}

// ReadFile reads a vector file relative to dir.
func ReadFile(dir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, name))
}

func load(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("vectors: %s: %w", path, err)
	}
	return nil
}
