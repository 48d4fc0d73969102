package arc90

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/codec"
)

func TestParse_Mainnet(t *testing.T) {
	u, err := Parse("algorand://app/1001?box=AAAAAAAAAHs=")
	require.NoError(t, err)
	assert.Equal(t, "", u.NetAuth)
	assert.Equal(t, uint64(1001), u.AppID)
	assert.False(t, u.IsPartial())
	id, ok := u.AssetID()
	require.True(t, ok)
	assert.Equal(t, uint64(123), id)
	assert.True(t, u.Compliance.IsEmpty())
}

func TestParse_NetAuthAndCompliance(t *testing.T) {
	u, err := Parse("algorand://net:testnet/app/42?box=AAAAAAAA-_8=#arc20+62")
	require.NoError(t, err)
	assert.Equal(t, "testnet", u.NetAuth)
	assert.Equal(t, uint64(42), u.AppID)
	id, ok := u.AssetID()
	require.True(t, ok)
	assert.Equal(t, uint64(0xfbff), id)
	assert.Equal(t, []uint64{20, 62}, u.Compliance.Tags())

	b64, err := u.AlgodBoxNameB64()
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA+/8=", b64)
}

func TestParse_Partial(t *testing.T) {
	for _, raw := range []string{"algorand://app/7?box=", "algorand://app/7?box", "algorand://net:localnet/app/7?box=#arc89"} {
		u, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.True(t, u.IsPartial(), raw)
		_, ok := u.AssetID()
		assert.False(t, ok)
		_, err = u.AlgodBoxNameB64()
		assert.True(t, arcerr.IsKind(err, arcerr.KindInvariant))
	}
}

func TestParse_InvalidCompliance(t *testing.T) {
	u, err := Parse("algorand://app/7?box=AAAAAAAAAHs=#arc3+89")
	require.NoError(t, err)
	assert.True(t, u.Compliance.IsEmpty())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		raw  string
		rule string
	}{
		{"https://app/1?box=", "ARC90-URI-001"},
		{"algorand:/app/1?box=", "ARC90-URI-001"},
		{"algorand://app/1", "ARC90-URI-002"},
		{"algorand://app/1?other=x", "ARC90-URI-002"},
		{"algorand://asset/1?box=", "ARC90-URI-003"},
		{"algorand://net:/app/1?box=", "ARC90-URI-003"},
		{"algorand://net:testnet/app/1/extra?box=", "ARC90-URI-003"},
		{"algorand://testnet/app/1?box=", "ARC90-URI-003"},
		{"algorand://app/abc?box=", "ARC90-URI-004"},
		{"algorand://app/+1?box=", "ARC90-URI-004"},
		{"algorand://app/?box=", "ARC90-URI-004"},
		{"algorand://app/18446744073709551616?box=", "ARC90-URI-004"},
		{"algorand://app/1?box=***", "ARC90-URI-005"},
		{"algorand://app/1?box=AAAAAAAA+/8=", "ARC90-URI-005"},
		{"algorand://app/1?box=AAAA", "ARC90-URI-006"},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			_, err := Parse(tc.raw)
			require.Error(t, err)
			assert.True(t, arcerr.IsKind(err, arcerr.KindParse))
			assert.Equal(t, tc.rule, arcerr.RuleID(err))
		})
	}
}

func TestFormat(t *testing.T) {
	u := NewURI("", 1001, codec.AssetIDToBoxName(123), NewCompliance())
	s, err := u.Format()
	require.NoError(t, err)
	assert.Equal(t, "algorand://app/1001?box=AAAAAAAAAHs=", s)

	u = NewURI("testnet", 5, codec.AssetIDToBoxName(0xfbff), NewCompliance(3))
	s, err = u.Format()
	require.NoError(t, err)
	assert.Equal(t, "algorand://net:testnet/app/5?box=AAAAAAAA-_8=#arc3", s)

	p := NewPartialURI("", 9, NewCompliance(89))
	s, err = p.Format()
	require.NoError(t, err)
	assert.Equal(t, "algorand://app/9?box=#arc89", s)

	bad := NewURI("", 1, codec.AssetIDToBoxName(1), NewCompliance(3, 20))
	_, err = bad.Format()
	assert.True(t, arcerr.IsKind(err, arcerr.KindInvariant))
	assert.Equal(t, "algorand://app/1?box=AAAAAAAAAAE=", bad.String())
}

func TestURI_RoundTrip(t *testing.T) {
	uris := []URI{
		NewURI("", 0, codec.AssetIDToBoxName(0), NewCompliance()),
		NewURI("", 1001, codec.AssetIDToBoxName(123), NewCompliance(3)),
		NewURI("testnet", 18446744073709551615, codec.AssetIDToBoxName(18446744073709551615), NewCompliance(20, 62)),
		NewURI("localnet", 7, codec.AssetIDToBoxName(77), NewCompliance(0, 89)),
	}
	for _, u := range uris {
		s, err := u.Format()
		require.NoError(t, err)
		back, err := Parse(s)
		require.NoError(t, err, s)
		assert.True(t, u.Equal(back), s)
		again, err := back.Format()
		require.NoError(t, err)
		assert.Equal(t, s, again)
	}
}

func TestWithAssetID(t *testing.T) {
	p, err := Parse("algorand://net:testnet/app/42?box=#arc89")
	require.NoError(t, err)
	full := p.WithAssetID(123)
	assert.True(t, p.IsPartial(), "WithAssetID must not mutate the receiver")
	assert.False(t, full.IsPartial())
	name, ok := full.BoxName()
	require.True(t, ok)
	assert.Equal(t, codec.AssetIDToBoxName(123), name)
	assert.Equal(t, "algorand://net:testnet/app/42?box=AAAAAAAAAHs=#arc89", full.String())
}
