package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arc90"
	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/box"
	"xdao.co/arc89/boxstore/memstore"
	"xdao.co/arc89/codec"
	"xdao.co/arc89/flags"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/jsonmeta"
	"xdao.co/arc89/params"
)

var testDeployment = params.Deployment{Network: "testnet", AppID: 1000}

type assets map[uint64]AssetInfo

func (a assets) LookupAsset(_ context.Context, id uint64) (AssetInfo, error) {
	return a[id], nil
}

// putRecord stores a valid record for assetID and returns it.
func putRecord(t *testing.T, s *memstore.Store, assetID uint64, irreversible byte) box.AssetMetadata {
	t.Helper()
	p := params.Default()
	o := jsonmeta.NewObject().Set("name", jsonmeta.String("Test"))
	md, err := box.NewAssetMetadataFromJSON(assetID, o, flags.NewMetadataFlags(0, irreversible), p)
	require.NoError(t, err)
	h, err := md.Header(p, 10)
	require.NoError(t, err)
	value, err := box.EncodeBox(h, md.Body, p.HeaderSize)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), codec.AssetIDToBoxName(assetID), value))
	return md
}

func pointer(t *testing.T, u arc90.URI) string {
	t.Helper()
	s, err := u.Format()
	require.NoError(t, err)
	return s
}

func TestResolve_PartialPointer(t *testing.T) {
	store := memstore.New()
	putRecord(t, store, 7, 0)
	r := New(assets{7: {Exists: true, URL: pointer(t, testDeployment.PartialURI())}}, store, testDeployment, Options{})

	res, err := r.Resolve(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, res.HashVerified)
	assert.False(t, res.OverrideUsed)
	assert.Equal(t, SourcePointer, res.Source)
	assert.True(t, res.URI.Equal(testDeployment.URI(7)))
	assert.Equal(t, uint64(7), res.Box.AssetID)
}

func TestResolve_CompletePointer(t *testing.T) {
	store := memstore.New()
	putRecord(t, store, 8, 0)
	r := New(assets{8: {Exists: true, URL: pointer(t, testDeployment.URI(8))}}, store, params.Deployment{}, Options{Mode: ModeStrict})

	res, err := r.Resolve(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, res.HashVerified)
}

func TestResolve_FallbackToDeployment(t *testing.T) {
	store := memstore.New()
	putRecord(t, store, 9, 0)
	a := assets{9: {Exists: true, URL: "ipfs://bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy"}}

	res, err := New(a, store, testDeployment, Options{}).Resolve(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, SourceDeployment, res.Source)
	assert.True(t, res.HashVerified)

	_, err = New(a, store, params.Deployment{}, Options{}).Resolve(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNoLocation)
}

func TestResolve_Errors(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	_, err := New(assets{}, store, testDeployment, Options{}).Resolve(ctx, 1)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	a := assets{2: {Exists: true, URL: pointer(t, testDeployment.PartialURI())}}
	_, err = New(a, store, testDeployment, Options{}).Resolve(ctx, 2)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	other := params.Deployment{Network: "testnet", AppID: 2000}
	a = assets{3: {Exists: true, URL: pointer(t, other.PartialURI())}}
	_, err = New(a, store, testDeployment, Options{}).Resolve(ctx, 3)
	assert.ErrorIs(t, err, ErrAppMismatch)

	_, err = New(nil, store, testDeployment, Options{}).Resolve(ctx, 1)
	assert.ErrorIs(t, err, ErrMissingAssets)
	_, err = New(a, nil, params.Deployment{}, Options{}).Resolve(ctx, 3)
	assert.ErrorIs(t, err, ErrMissingStore)

	failing := AssetLookupFunc(func(context.Context, uint64) (AssetInfo, error) {
		return AssetInfo{}, errors.New("ledger down")
	})
	_, err = New(failing, store, testDeployment, Options{}).Resolve(ctx, 1)
	assert.ErrorContains(t, err, "ledger down")

	require.NoError(t, store.Put(ctx, codec.AssetIDToBoxName(4), []byte("short")))
	a = assets{4: {Exists: true, URL: pointer(t, testDeployment.PartialURI())}}
	_, err = New(a, store, testDeployment, Options{}).Resolve(ctx, 4)
	assert.True(t, arcerr.IsKind(err, arcerr.KindParse))
}

func TestResolve_HashMismatch(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	p := params.Default()
	value, err := box.EncodeBox(box.MetadataHeader{}, box.NewMetadataBody([]byte(`{"x":1}`)), p.HeaderSize)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, codec.AssetIDToBoxName(5), value))
	a := assets{5: {Exists: true, URL: pointer(t, testDeployment.PartialURI())}}

	res, err := New(a, store, testDeployment, Options{}).Resolve(ctx, 5)
	require.NoError(t, err)
	assert.False(t, res.HashVerified)
	assert.ErrorIs(t, res.VerifyErr, ErrHashMismatch)

	_, err = New(a, store, testDeployment, Options{Mode: ModeStrict}).Resolve(ctx, 5)
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestResolve_Override(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	md := putRecord(t, store, 6, flags.IrreversibleImmutable)
	p := params.Default()
	realHash, err := md.MetadataHash(p)
	require.NoError(t, err)

	var declared hashing.Hash
	declared[0] = 0xaa
	a := assets{6: {Exists: true, URL: pointer(t, testDeployment.PartialURI()), MetadataHash: declared}}

	res, err := New(a, store, testDeployment, Options{}).Resolve(ctx, 6)
	require.NoError(t, err)
	assert.True(t, res.HashVerified, "declared hash is trusted by default")
	assert.True(t, res.OverrideUsed)

	_, err = New(a, store, testDeployment, Options{Mode: ModeStrict, VerifyOverride: true}).Resolve(ctx, 6)
	assert.ErrorIs(t, err, ErrHashMismatch)

	a[6] = AssetInfo{Exists: true, URL: a[6].URL, MetadataHash: realHash}
	res, err = New(a, store, testDeployment, Options{Mode: ModeStrict, VerifyOverride: true}).Resolve(ctx, 6)
	require.NoError(t, err)
	assert.True(t, res.HashVerified)
	assert.False(t, res.OverrideUsed)
}

func TestResolve_VerifyOverrideRehashesBody(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	p := params.Default()
	md := putRecord(t, store, 13, flags.IrreversibleImmutable)
	declared, err := md.MetadataHash(p)
	require.NoError(t, err)

	// Keep the header, and so its hash, but swap the body.
	h, err := md.Header(p, 10)
	require.NoError(t, err)
	tampered, err := box.EncodeBox(h, box.NewMetadataBody([]byte(`{"name":"EVIL"}`)), p.HeaderSize)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, codec.AssetIDToBoxName(13), tampered))

	a := assets{13: {Exists: true, URL: pointer(t, testDeployment.PartialURI()), MetadataHash: declared}}

	_, err = New(a, store, testDeployment, Options{Mode: ModeStrict, VerifyOverride: true}).Resolve(ctx, 13)
	assert.ErrorIs(t, err, ErrHashMismatch)

	res, err := New(a, store, testDeployment, Options{VerifyOverride: true}).Resolve(ctx, 13)
	require.NoError(t, err)
	assert.False(t, res.HashVerified)
	assert.ErrorIs(t, res.VerifyErr, ErrHashMismatch)

	res, err = New(a, store, testDeployment, Options{}).Resolve(ctx, 13)
	require.NoError(t, err)
	assert.True(t, res.HashVerified, "declared hash is trusted without VerifyOverride")
	assert.True(t, res.OverrideUsed)
}

func TestResolve_OverrideOnMutableRecord(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	putRecord(t, store, 11, 0)
	var declared hashing.Hash
	declared[0] = 1
	a := assets{11: {Exists: true, URL: pointer(t, testDeployment.PartialURI()), MetadataHash: declared}}

	res, err := New(a, store, testDeployment, Options{}).Resolve(ctx, 11)
	require.NoError(t, err)
	assert.False(t, res.HashVerified)
	assert.False(t, res.OverrideUsed)
	assert.True(t, arcerr.IsKind(res.VerifyErr, arcerr.KindInvariant))

	res, err = New(a, store, testDeployment, Options{VerifyOverride: true}).Resolve(ctx, 11)
	require.NoError(t, err)
	assert.False(t, res.HashVerified)
	assert.True(t, arcerr.IsKind(res.VerifyErr, arcerr.KindInvariant))

	_, err = New(a, store, testDeployment, Options{Mode: ModeStrict, VerifyOverride: true}).Resolve(ctx, 11)
	assert.True(t, arcerr.IsKind(err, arcerr.KindInvariant))
}

func TestResolveURI(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	putRecord(t, store, 12, 0)
	r := New(nil, store, testDeployment, Options{Mode: ModeStrict})

	res, err := r.ResolveURI(ctx, testDeployment.URI(12))
	require.NoError(t, err)
	assert.True(t, res.HashVerified)

	_, err = r.ResolveURI(ctx, testDeployment.PartialURI())
	assert.ErrorIs(t, err, ErrPartialURI)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("strict")
	assert.True(t, ok)
	assert.Equal(t, ModeStrict, m)
	assert.Equal(t, "strict", m.String())
	m, ok = ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModePermissive, m)
	_, ok = ParseMode("loose")
	assert.False(t, ok)
}
