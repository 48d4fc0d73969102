// Package resolver follows an asset's metadata pointer to its registry record
// and verifies the record's hash.
//
// Resolution order for an asset:
//
//  1. look the asset up; a missing asset is ErrAssetNotFound
//  2. parse its pointer as an ARC-90 URI, completing a partial URI with the
//     asset id; a pointer that is not ARC-90 falls back to the configured
//     deployment
//  3. check the URI points into the configured deployment
//  4. fetch and parse the record
//  5. verify the record hash, honoring the asset's own metadata hash as an
//     override for immutable records
package resolver

import (
	"context"
	"errors"
	"fmt"

	"xdao.co/arc89/arc90"
	"xdao.co/arc89/box"
	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/hashing"
	"xdao.co/arc89/params"
)

var (
	ErrAssetNotFound  = errors.New("resolver: asset not found")
	ErrRecordNotFound = errors.New("resolver: record not found")
	ErrNoLocation     = errors.New("resolver: asset has no ARC-90 pointer and no deployment is configured")
	ErrAppMismatch    = errors.New("resolver: URI points outside the configured deployment")
	ErrHashMismatch   = errors.New("resolver: metadata hash mismatch")
	ErrMissingStore   = errors.New("resolver: missing record store")
	ErrMissingAssets  = errors.New("resolver: missing asset lookup")
	ErrPartialURI     = errors.New("resolver: partial URI needs an asset id")
)

// AssetInfo is what the asset registry knows about an asset.
type AssetInfo struct {
	Exists bool
	// URL is the asset's metadata pointer; it may be an ARC-90 URI, partial
	// or complete, or anything else.
	URL string
	// MetadataHash is the asset's own 32-byte metadata hash field. Zero means
	// the asset declares none.
	MetadataHash hashing.Hash
}

// AssetLookup reads asset parameters from the ledger.
type AssetLookup interface {
	LookupAsset(ctx context.Context, assetID uint64) (AssetInfo, error)
}

// AssetLookupFunc adapts a function to AssetLookup.
type AssetLookupFunc func(ctx context.Context, assetID uint64) (AssetInfo, error)

func (f AssetLookupFunc) LookupAsset(ctx context.Context, assetID uint64) (AssetInfo, error) {
	return f(ctx, assetID)
}

// Source records where the URI of a resolution came from.
type Source string

const (
	SourcePointer    Source = "pointer"
	SourceDeployment Source = "deployment"
)

// Resolution is the outcome of a resolve.
type Resolution struct {
	AssetID uint64
	URI     arc90.URI
	Source  Source
	Box     *box.AssetMetadataBox

	// HashVerified reports whether the stored hash matched.
	HashVerified bool
	// OverrideUsed is set when the asset's own metadata hash was trusted in
	// place of a recomputation.
	OverrideUsed bool
	// VerifyErr explains a failed verification in permissive mode.
	VerifyErr error
}

// Resolver resolves assets against one record store.
type Resolver struct {
	Assets AssetLookup
	Store  boxstore.Store
	Params params.RegistryParameters
	// Deployment is the registry assets are expected to point into. The zero
	// Deployment accepts any URI and disables the fallback.
	Deployment params.Deployment
	Options    Options
}

// New returns a Resolver with default parameters.
func New(assets AssetLookup, store boxstore.Store, d params.Deployment, opts Options) *Resolver {
	return &Resolver{Assets: assets, Store: store, Params: params.Default(), Deployment: d, Options: opts}
}

// Resolve resolves assetID's metadata record.
func (r *Resolver) Resolve(ctx context.Context, assetID uint64) (*Resolution, error) {
	if r.Assets == nil {
		return nil, ErrMissingAssets
	}
	info, err := r.Assets.LookupAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("resolver: lookup asset %d: %w", assetID, err)
	}
	if !info.Exists {
		return nil, fmt.Errorf("%w: %d", ErrAssetNotFound, assetID)
	}

	u, source, err := r.locate(assetID, info.URL)
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, assetID, u, source, info.MetadataHash)
}

// ResolveURI resolves a complete URI directly, without an asset lookup and
// therefore without a hash override.
func (r *Resolver) ResolveURI(ctx context.Context, u arc90.URI) (*Resolution, error) {
	id, ok := u.AssetID()
	if !ok {
		return nil, ErrPartialURI
	}
	return r.fetch(ctx, id, u, SourcePointer, hashing.Hash{})
}

func (r *Resolver) locate(assetID uint64, pointer string) (arc90.URI, Source, error) {
	u, err := arc90.Parse(pointer)
	if err != nil {
		if r.Deployment.IsZero() {
			return arc90.URI{}, "", fmt.Errorf("%w: %d", ErrNoLocation, assetID)
		}
		return r.Deployment.URI(assetID), SourceDeployment, nil
	}
	if u.IsPartial() {
		u = u.WithAssetID(assetID)
	}
	return u, SourcePointer, nil
}

func (r *Resolver) fetch(ctx context.Context, assetID uint64, u arc90.URI, source Source, override hashing.Hash) (*Resolution, error) {
	if r.Store == nil {
		return nil, ErrMissingStore
	}
	if !r.Deployment.IsZero() && !r.Deployment.Matches(u) {
		return nil, fmt.Errorf("%w: %s", ErrAppMismatch, u)
	}
	key, _ := u.BoxName()
	value, err := r.Store.Get(ctx, key)
	if err != nil {
		if boxstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: asset %d", ErrRecordNotFound, key.AssetID())
		}
		return nil, fmt.Errorf("resolver: fetch record %d: %w", key.AssetID(), err)
	}
	b, err := box.ParseBox(key.AssetID(), value, r.Params)
	if err != nil {
		return nil, err
	}

	res := &Resolution{AssetID: assetID, URI: u, Source: source, Box: b}
	if err := r.verify(res, override); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) verify(res *Resolution, override hashing.Hash) error {
	opts := r.Options.withDefaults()
	// Only an immutable record may be vouched for by the asset's own hash.
	skip := !opts.VerifyOverride && res.Box.Header.Flags.Irreversible.Immutable()
	ok, err := res.Box.HashMatches(override, skip)
	if err == nil && ok && !skip && !override.IsZero() {
		// The header agrees with the declared hash; the body must agree too.
		ok, err = res.Box.HashMatches(hashing.Hash{}, false)
	}
	res.HashVerified = err == nil && ok
	res.OverrideUsed = err == nil && skip && !override.IsZero()
	switch {
	case err != nil:
		res.VerifyErr = err
	case !ok:
		res.VerifyErr = fmt.Errorf("%w: asset %d", ErrHashMismatch, res.Box.AssetID)
	}
	if opts.Mode == ModeStrict && res.VerifyErr != nil {
		return res.VerifyErr
	}
	return nil
}
