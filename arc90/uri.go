package arc90

import (
	"net/url"
	"strconv"
	"strings"

	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/codec"
)

const (
	// Scheme is the URI scheme including the authority separator.
	Scheme = "algorand://"
	// BoxParam is the query parameter carrying the record key.
	BoxParam = "box"

	netPrefix = "net:"
)

// URI locates a registry record.
//
// A URI without a record key is partial: it names the registry application
// and waits for an asset identifier (see WithAssetID).
type URI struct {
	// NetAuth is the network tag; empty means the main network.
	NetAuth    string
	AppID      uint64
	Compliance Compliance

	box    codec.BoxName
	hasBox bool
}

// NewURI returns a complete URI.
func NewURI(netAuth string, appID uint64, box codec.BoxName, compliance Compliance) URI {
	return URI{NetAuth: netAuth, AppID: appID, Compliance: compliance, box: box, hasBox: true}
}

// NewPartialURI returns a URI without a record key.
func NewPartialURI(netAuth string, appID uint64, compliance Compliance) URI {
	return URI{NetAuth: netAuth, AppID: appID, Compliance: compliance}
}

func parseErr(rule, msg string) error { return arcerr.New(arcerr.KindParse, rule, msg) }

// Parse decodes a location URI. The compliance fragment is parsed leniently
// (see ParseCompliance); every other malformation is a KindParse error.
func Parse(raw string) (URI, error) {
	rest, ok := strings.CutPrefix(raw, Scheme)
	if !ok {
		return URI{}, parseErr("ARC90-URI-001", "URI must use the algorand:// scheme")
	}
	rest, fragment, _ := strings.Cut(rest, "#")
	path, query, hasQuery := strings.Cut(rest, "?")

	var u URI
	segs := strings.Split(path, "/")
	switch {
	case len(segs) == 3 && strings.HasPrefix(segs[0], netPrefix) && segs[1] == "app":
		u.NetAuth = strings.TrimPrefix(segs[0], netPrefix)
		if u.NetAuth == "" {
			return URI{}, parseErr("ARC90-URI-003", "empty network tag")
		}
	case len(segs) == 2 && segs[0] == "app":
	default:
		return URI{}, parseErr("ARC90-URI-003", "unrecognized URI path")
	}
	appID, err := parseAppID(segs[len(segs)-1])
	if err != nil {
		return URI{}, err
	}
	u.AppID = appID

	if !hasQuery {
		return URI{}, parseErr("ARC90-URI-002", "missing box parameter")
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return URI{}, arcerr.Wrap(arcerr.KindParse, "ARC90-URI-002", "malformed query", err)
	}
	if _, ok := values[BoxParam]; !ok {
		return URI{}, parseErr("ARC90-URI-002", "missing box parameter")
	}
	if enc := values.Get(BoxParam); enc != "" {
		b, err := codec.B64URLDecode(enc)
		if err != nil {
			return URI{}, arcerr.Wrap(arcerr.KindParse, "ARC90-URI-005", "box parameter is not valid base64url", err)
		}
		name, err := codec.BoxNameFromBytes(b)
		if err != nil {
			return URI{}, arcerr.Wrap(arcerr.KindParse, "ARC90-URI-006", "box parameter must decode to 8 bytes", err)
		}
		u.box, u.hasBox = name, true
	}
	u.Compliance = ParseCompliance(fragment)
	return u, nil
}

func parseAppID(s string) (uint64, error) {
	if s == "" {
		return 0, parseErr("ARC90-URI-004", "missing app id")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, parseErr("ARC90-URI-004", "app id must be numeric")
		}
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, arcerr.Wrap(arcerr.KindParse, "ARC90-URI-004", "app id out of range", err)
	}
	return id, nil
}

// IsPartial reports whether the URI lacks a record key.
func (u URI) IsPartial() bool { return !u.hasBox }

// BoxName returns the record key, if any.
func (u URI) BoxName() (codec.BoxName, bool) { return u.box, u.hasBox }

// AssetID returns the asset identifier encoded in the record key, if any.
func (u URI) AssetID() (uint64, bool) {
	if !u.hasBox {
		return 0, false
	}
	return u.box.AssetID(), true
}

// WithAssetID returns a copy of u addressing assetID's record.
func (u URI) WithAssetID(assetID uint64) URI {
	u.box, u.hasBox = codec.AssetIDToBoxName(assetID), true
	return u
}

// AlgodBoxNameB64 returns the record key in standard base64, the form the
// ledger's box API expects.
func (u URI) AlgodBoxNameB64() (string, error) {
	if !u.hasBox {
		return "", arcerr.New(arcerr.KindInvariant, "ARC90-URI-010", "partial URI has no box name")
	}
	return codec.B64Encode(u.box[:]), nil
}

// Format serializes u. It fails when the compliance set cannot be serialized.
func (u URI) Format() (string, error) {
	fragment, err := u.Compliance.Fragment()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(Scheme)
	if u.NetAuth != "" {
		b.WriteString(netPrefix)
		b.WriteString(u.NetAuth)
		b.WriteByte('/')
	}
	b.WriteString("app/")
	b.WriteString(strconv.FormatUint(u.AppID, 10))
	b.WriteString("?" + BoxParam + "=")
	if u.hasBox {
		b.WriteString(codec.B64URLEncode(u.box[:]))
	}
	b.WriteString(fragment)
	return b.String(), nil
}

// String is Format without the error; an unserializable compliance set is
// omitted.
func (u URI) String() string {
	s, err := u.Format()
	if err != nil {
		u.Compliance = Compliance{}
		s, _ = u.Format()
	}
	return s
}

// Equal compares every component of two URIs.
func (u URI) Equal(o URI) bool {
	return u.NetAuth == o.NetAuth &&
		u.AppID == o.AppID &&
		u.hasBox == o.hasBox &&
		u.box == o.box &&
		u.Compliance.Equal(o.Compliance)
}
