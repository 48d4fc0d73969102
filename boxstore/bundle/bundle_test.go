package bundle_test

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"xdao.co/arc89/box"
	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/bundle"
	"xdao.co/arc89/boxstore/localfs"
	"xdao.co/arc89/boxstore/memstore"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/params"
)

func record(body string) []byte {
	return append(make([]byte, box.HeaderLen), body...)
}

func TestBundle_ExportIsDeterministic(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	a, b := codec.AssetIDToBoxName(1), codec.AssetIDToBoxName(2)
	if err := s.Put(ctx, a, record(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, b, record(`{"b":2}`)); err != nil {
		t.Fatal(err)
	}

	var outA, outB, outAll bytes.Buffer
	if err := bundle.Export(ctx, &outA, s, []codec.BoxName{b, a}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}
	if err := bundle.Export(ctx, &outB, s, []codec.BoxName{a, b, a}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}
	if err := bundle.Export(ctx, &outAll, s, nil, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(outA.Bytes(), outB.Bytes()) || !bytes.Equal(outA.Bytes(), outAll.Bytes()) {
		t.Fatalf("expected deterministic bundle bytes")
	}
}

func TestBundle_ImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	key := codec.AssetIDToBoxName(123)
	value := record(`{"name":"Test"}`)
	if err := src.Put(ctx, key, value); err != nil {
		t.Fatal(err)
	}

	p := params.Default()
	var buf bytes.Buffer
	if err := bundle.Export(ctx, &buf, src, nil, bundle.ExportOptions{IncludeIndex: true, Params: &p}); err != nil {
		t.Fatal(err)
	}

	dst, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keys, err := bundle.Import(ctx, bytes.NewReader(buf.Bytes()), dst, bundle.ImportOptions{Params: &p})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("imported keys: %v", keys)
	}
	got, err := dst.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, value) {
		t.Fatalf("payload mismatch")
	}
}

func TestBundle_ExportRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	if err := s.Put(ctx, codec.AssetIDToBoxName(1), []byte("short")); err != nil {
		t.Fatal(err)
	}
	p := params.Default()
	var buf bytes.Buffer
	if err := bundle.Export(ctx, &buf, s, nil, bundle.ExportOptions{Params: &p}); err == nil {
		t.Fatalf("expected parse failure")
	}
	buf.Reset()
	if err := bundle.Export(ctx, &buf, s, nil, bundle.ExportOptions{}); err != nil {
		t.Fatalf("raw export failed: %v", err)
	}
}

func TestBundle_ExportMissingKey(t *testing.T) {
	var buf bytes.Buffer
	err := bundle.Export(context.Background(), &buf, memstore.New(), []codec.BoxName{codec.AssetIDToBoxName(5)}, bundle.ExportOptions{})
	if !boxstore.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBundle_ImportRejects(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		entry string
		want  error
	}{
		{"bad hex", "boxes/zz", boxstore.ErrInvalidKey},
		{"short key", "boxes/0102", boxstore.ErrInvalidKey},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bundle.Import(ctx, bytes.NewReader(makeDeterministicTar(t, tc.entry, []byte("x"))), memstore.New(), bundle.ImportOptions{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}

	unknown := makeDeterministicTar(t, "other/file", []byte("x"))
	if _, err := bundle.Import(ctx, bytes.NewReader(unknown), memstore.New(), bundle.ImportOptions{}); err == nil {
		t.Fatalf("unknown entry accepted")
	}
	if _, err := bundle.Import(ctx, bytes.NewReader(unknown), memstore.New(), bundle.ImportOptions{IgnoreUnknown: true}); err != nil {
		t.Fatalf("IgnoreUnknown: %v", err)
	}

	traversal := makeDeterministicTar(t, "boxes/../../etc/passwd", []byte("x"))
	if _, err := bundle.Import(ctx, bytes.NewReader(traversal), memstore.New(), bundle.ImportOptions{}); err == nil {
		t.Fatalf("path traversal accepted")
	}

	p := params.Default()
	invalid := makeDeterministicTar(t, "boxes/0000000000000001", []byte("x"))
	if _, err := bundle.Import(ctx, bytes.NewReader(invalid), memstore.New(), bundle.ImportOptions{Params: &p}); err == nil {
		t.Fatalf("invalid record accepted")
	}
}

func makeDeterministicTar(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	h := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  time.Unix(0, 0).UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(h); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
