// Package bundle exports and imports deterministic TAR snapshots of record
// stores.
//
// Layout:
//
//	boxes/<16 hex digits>   one raw record value per key
//	index.json              optional, non-authoritative summary
package bundle

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"xdao.co/arc89/box"
	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/params"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

const boxesDir = "boxes/"

var epoch0 = time.Unix(0, 0).UTC()

// ExportOptions controls bundle export behavior.
type ExportOptions struct {
	// IncludeIndex controls whether index.json is included.
	IncludeIndex bool
	// Params, when set, makes Export parse every record and fail on values
	// that are not valid records. The index then carries each record's
	// header hash and body CID.
	Params *params.RegistryParameters
}

// Export writes a deterministic TAR bundle of the records under keys. A nil
// keys slice exports every record of a store that implements
// boxstore.Lister.
//
// Entry order is ascending by key and TAR headers are normalized, so equal
// inputs give equal bytes.
func Export(ctx context.Context, w io.Writer, store boxstore.Store, keys []codec.BoxName, opts ExportOptions) error {
	if store == nil {
		return fmt.Errorf("bundle: nil store")
	}
	if keys == nil {
		l, ok := store.(boxstore.Lister)
		if !ok {
			return fmt.Errorf("bundle: store cannot list keys; pass them explicitly")
		}
		var err error
		if keys, err = l.Keys(ctx); err != nil {
			return err
		}
	}

	uniq := make(map[codec.BoxName]struct{}, len(keys))
	for _, k := range keys {
		uniq[k] = struct{}{}
	}
	sorted := make([]codec.BoxName, 0, len(uniq))
	for k := range uniq {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i][:], sorted[j][:]) < 0 })

	tw := tar.NewWriter(w)
	entries := make([]indexEntry, 0, len(sorted))
	for _, k := range sorted {
		v, err := store.Get(ctx, k)
		if err != nil {
			_ = tw.Close()
			return fmt.Errorf("bundle: asset %d: %w", k.AssetID(), err)
		}
		e := indexEntry{AssetID: k.AssetID(), BoxName: k.Hex(), Size: len(v)}
		if opts.Params != nil {
			b, err := box.ParseBox(k.AssetID(), v, *opts.Params)
			if err != nil {
				_ = tw.Close()
				return fmt.Errorf("bundle: asset %d: %w", k.AssetID(), err)
			}
			e.MetadataHash = b.Header.MetadataHash.Hex()
			e.BodyCID = b.Body.CID()
		}
		if err := writeFile(tw, boxesDir+k.Hex(), v); err != nil {
			_ = tw.Close()
			return err
		}
		entries = append(entries, e)
	}

	if opts.IncludeIndex {
		b, err := marshalCanonicalIndexJSON(indexJSON{Version: FormatVersion, Boxes: entries})
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, "index.json", b); err != nil {
			_ = tw.Close()
			return err
		}
	}
	return tw.Close()
}

// ImportOptions controls bundle import behavior.
type ImportOptions struct {
	// IgnoreUnknown controls whether unknown TAR entries are ignored.
	//
	// Default (false) is fail-closed: unknown entries cause Import to return an error.
	IgnoreUnknown bool
	// Params, when set, rejects entries that are not valid records.
	Params *params.RegistryParameters
}

// Import reads a bundle from r and writes every record into store. It
// returns the imported keys in bundle order.
//
// Default behavior is fail-closed: unknown entries cause an error.
func Import(ctx context.Context, r io.Reader, store boxstore.Store, opts ImportOptions) ([]codec.BoxName, error) {
	if store == nil {
		return nil, fmt.Errorf("bundle: nil store")
	}
	tr := tar.NewReader(r)
	seen := map[codec.BoxName]struct{}{}
	var imported []codec.BoxName

	for {
		h, err := tr.Next()
		if err == io.EOF {
			return imported, nil
		}
		if err != nil {
			return imported, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return imported, fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return imported, fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		// Non-authoritative metadata.
		if name == "index.json" {
			_, _ = io.Copy(io.Discard, tr)
			continue
		}

		hexKey, ok := strings.CutPrefix(name, boxesDir)
		if !ok {
			if opts.IgnoreUnknown {
				_, _ = io.Copy(io.Discard, tr)
				continue
			}
			return imported, fmt.Errorf("bundle: unknown entry: %s", name)
		}
		raw, err := hex.DecodeString(hexKey)
		if err != nil {
			return imported, fmt.Errorf("%w: %s", boxstore.ErrInvalidKey, name)
		}
		key, err := codec.BoxNameFromBytes(raw)
		if err != nil {
			return imported, fmt.Errorf("%w: %s", boxstore.ErrInvalidKey, name)
		}
		if _, dup := seen[key]; dup {
			return imported, fmt.Errorf("bundle: duplicate box entry: %s", hexKey)
		}
		seen[key] = struct{}{}

		if h.Size > params.MaxBoxSize {
			return imported, fmt.Errorf("%w: %s", boxstore.ErrValueTooLarge, name)
		}
		value, err := io.ReadAll(tr)
		if err != nil {
			return imported, err
		}
		if opts.Params != nil {
			if _, err := box.ParseBox(key.AssetID(), value, *opts.Params); err != nil {
				return imported, fmt.Errorf("bundle: asset %d: %w", key.AssetID(), err)
			}
		}
		if err := store.Put(ctx, key, value); err != nil {
			return imported, err
		}
		imported = append(imported, key)
	}
}

type indexJSON struct {
	Version int          `json:"version"`
	Boxes   []indexEntry `json:"boxes"`
}

type indexEntry struct {
	AssetID      uint64 `json:"assetId"`
	BoxName      string `json:"boxName"`
	Size         int    `json:"size"`
	MetadataHash string `json:"metadataHash,omitempty"`
	BodyCID      string `json:"bodyCid,omitempty"`
}

func marshalCanonicalIndexJSON(idx indexJSON) ([]byte, error) {
	// indexJSON is composed only of structs + slices; encoding/json will be deterministic.
	b, err := json.Marshal(idx)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
