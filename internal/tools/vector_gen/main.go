// vector_gen regenerates testdata/conformance/arc89 from the cases below.
//
//	go run ./internal/tools/vector_gen -out testdata/conformance/arc89
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xdao.co/arc89/box"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/flags"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/internal/vectors"
	"xdao.co/arc89/params"
)

type recordCase struct {
	name         string
	assetID      uint64
	reversible   byte
	irreversible byte
	pageSize     int
	round        uint64
	deprecatedBy uint64
	body         string
}

var recordCases = []recordCase{
	{name: "short_name", assetID: 123, pageSize: 1024, body: `{"name":"Test"}`},
	{name: "empty", assetID: 1, pageSize: 1024, round: 5},
	{name: "flags", assetID: 42, reversible: 0x03, irreversible: 0x81, pageSize: 1024, round: 99, deprecatedBy: 7,
		body: `{"name":"Flagged","decimals":0}`},
	{name: "multipage", assetID: 1<<56 + 5, irreversible: 0x02, pageSize: 1024, round: 1234567,
		body: `{"d":"` + strings.Repeat("x", 3000) + `"}`},
	{name: "multipage_512", assetID: 1<<56 + 5, irreversible: 0x02, pageSize: 512, round: 1234567,
		body: `{"d":"` + strings.Repeat("x", 3000) + `"}`},
	{name: "long", assetID: 9, pageSize: 1024, round: 1, body: `{"d":"` + strings.Repeat("y", 5000) + `"}`},
}

var arc3Cases = []struct{ name, file string }{
	{"plain", `{"name":"x"}`},
	{"extra", `{"name":"x","extra_metadata":"aGVsbG8="}`},
	{"array", `[1,2]`},
}

func main() {
	out := flag.String("out", vectors.Dir, "output directory")
	flag.Parse()
	if err := os.MkdirAll(*out, 0o755); err != nil {
		panic(err)
	}

	records := make([]vectors.Record, 0, len(recordCases))
	for _, c := range recordCases {
		records = append(records, record(*out, c))
	}
	writeJSON(filepath.Join(*out, "records.json"), records)

	arc3 := make([]vectors.ARC3, 0, len(arc3Cases))
	for _, c := range arc3Cases {
		file := "arc3_" + c.name + ".json"
		write(filepath.Join(*out, file), []byte(c.file))
		h, err := hashing.ARC3MetadataHash([]byte(c.file))
		if err != nil {
			panic(err)
		}
		arc3 = append(arc3, vectors.ARC3{Name: c.name, File: file, Hash: h.Hex()})
	}
	writeJSON(filepath.Join(*out, "arc3.json"), arc3)

	fmt.Printf("wrote %d record and %d arc3 vectors to %s\n", len(records), len(arc3), *out)
}

func record(dir string, c recordCase) vectors.Record {
	p := params.Default()
	p.PageSize = c.pageSize
	md := box.AssetMetadata{
		AssetID:      c.assetID,
		Body:         box.NewMetadataBody([]byte(c.body)),
		Flags:        flags.NewMetadataFlags(c.reversible, c.irreversible),
		DeprecatedBy: c.deprecatedBy,
	}
	mh, err := md.MetadataHash(p)
	if err != nil {
		panic(err)
	}
	hh, err := md.HeaderHash(p)
	if err != nil {
		panic(err)
	}
	pages, err := md.Body.Pages(c.pageSize)
	if err != nil {
		panic(err)
	}
	pageHashes := make([]string, 0, len(pages))
	for i, pg := range pages {
		h, err := hashing.PageHash(c.assetID, i, pg)
		if err != nil {
			panic(err)
		}
		pageHashes = append(pageHashes, h.Hex())
	}

	v := vectors.Record{
		Name:         c.name,
		AssetID:      c.assetID,
		Reversible:   c.reversible,
		Irreversible: c.irreversible,
		PageSize:     c.pageSize,
		Round:        c.round,
		DeprecatedBy: c.deprecatedBy,
		Identifiers:  md.Identifiers(p).Byte(),
		BodyFile:     c.name + ".json",
		MetadataHash: mh.Hex(),
		HeaderHash:   hh.Hex(),
		PageHashes:   pageHashes,
		BodyCID:      md.Body.CID(),
		BoxName:      codec.AssetIDToBoxName(c.assetID).Hex(),
	}
	write(filepath.Join(dir, v.BodyFile), md.Body.Bytes())

	if c.pageSize == params.DefaultPageSize {
		h, err := md.Header(p, c.round)
		if err != nil {
			panic(err)
		}
		value, err := box.EncodeBox(h, md.Body, p.HeaderSize)
		if err != nil {
			panic(err)
		}
		v.BoxFile = c.name + ".box"
		write(filepath.Join(dir, v.BoxFile), value)
	}
	return v
}

func writeJSON(path string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	write(path, append(b, '\n'))
}

func write(path string, b []byte) {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		panic(err)
	}
}
