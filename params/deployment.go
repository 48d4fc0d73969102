package params

import (
	"xdao.co/arc89/arc90"
	"xdao.co/arc89/codec"
)

// Deployment names one registry instance: the network it runs on and the
// application id of the registry contract. An empty Network is mainnet.
type Deployment struct {
	Network string
	AppID   uint64
}

// IsZero reports whether no deployment is configured.
func (d Deployment) IsZero() bool { return d == Deployment{} }

// URI is the complete ARC-90 location of assetID's record.
func (d Deployment) URI(assetID uint64, compliance ...uint64) arc90.URI {
	return arc90.NewURI(d.Network, d.AppID, codec.AssetIDToBoxName(assetID), arc90.NewCompliance(compliance...))
}

// PartialURI is the location template shared by every asset of d.
func (d Deployment) PartialURI(compliance ...uint64) arc90.URI {
	return arc90.NewPartialURI(d.Network, d.AppID, arc90.NewCompliance(compliance...))
}

// Matches reports whether u points into d.
func (d Deployment) Matches(u arc90.URI) bool {
	return u.NetAuth == d.Network && u.AppID == d.AppID
}
