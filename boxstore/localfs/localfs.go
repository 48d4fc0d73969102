// Package localfs is a boxstore.Store backed by one file per record.
package localfs

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
)

const fileExt = ".box"

// Store keeps each record in <root>/<hh>/<16 hex digits>.box where hh is the
// first key byte. Writes go through a temporary file and a rename, so a
// reader sees either the old value or the new one.
type Store struct {
	root string
}

var (
	_ boxstore.Store  = (*Store)(nil)
	_ boxstore.Lister = (*Store)(nil)
)

// New constructs a filesystem store rooted at root. The directory will be
// created if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root is the store directory.
func (s *Store) Root() string { return s.root }

func (s *Store) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, boxstore.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Store) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := boxstore.CheckValue(value); err != nil {
		return err
	}
	path := s.pathFor(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key codec.BoxName) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.pathFor(key))
	if os.IsNotExist(err) {
		return boxstore.ErrNotFound
	}
	return err
}

func (s *Store) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.pathFor(key))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// Keys walks the store directory. Files that do not look like records are
// skipped.
func (s *Store) Keys(ctx context.Context) ([]codec.BoxName, error) {
	var keys []codec.BoxName
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name, ok := strings.CutSuffix(d.Name(), fileExt)
		if !ok {
			return nil
		}
		raw, err := hex.DecodeString(name)
		if err != nil {
			return nil
		}
		key, err := codec.BoxNameFromBytes(raw)
		if err != nil {
			return nil
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i][:], keys[j][:]) < 0 })
	return keys, nil
}

func (s *Store) pathFor(key codec.BoxName) string {
	h := key.Hex()
	return filepath.Join(s.root, h[:2], h+fileExt)
}
