package params

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arcerr"
)

func TestDefault_Valid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, 32717, p.MaxMetadataSize)
	assert.Equal(t, 32, p.MaxPageCount())
	assert.True(t, p.IsShort(4096))
	assert.False(t, p.IsShort(4097))
}

func TestFromTuple_RoundTrip(t *testing.T) {
	p := Default()
	got, err := FromTuple(p.Tuple())
	require.NoError(t, err)
	assert.Equal(t, p, got)

	custom := []uint64{8, 51, 16000, 2048, 512, 2000, 2000, 2000, 1000, 100}
	got, err = FromTuple(custom)
	require.NoError(t, err)
	assert.Equal(t, 512, got.PageSize)
	assert.Equal(t, uint64(1000), got.FlatMbr)
	assert.Equal(t, custom, got.Tuple())
}

func TestFromTuple_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		tuple []uint64
		rule  string
	}{
		{"short", []uint64{1, 2, 3}, "ARC89-PARAM-001"},
		{"long", make([]uint64, 11), "ARC89-PARAM-001"},
		{"huge size", []uint64{8, 51, math.MaxUint32, 4096, 1024, 1, 1, 1, 1, 1}, "ARC89-PARAM-002"},
		{"zero page", []uint64{8, 51, 100, 4096, 0, 1, 1, 1, 1, 1}, "ARC89-PARAM-011"},
		{"exceeds box", []uint64{8, 51, 32718, 4096, 1024, 1, 1, 1, 1, 1}, "ARC89-PARAM-012"},
		{"too many pages", []uint64{8, 51, 32717, 4096, 64, 1, 1, 1, 1, 1}, "ARC89-PARAM-013"},
		{"short header", []uint64{8, 10, 1000, 4096, 1024, 1, 1, 1, 1, 1}, "ARC89-PARAM-014"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromTuple(tc.tuple)
			require.Error(t, err)
			assert.True(t, arcerr.IsKind(err, arcerr.KindRange))
			assert.Equal(t, tc.rule, arcerr.RuleID(err))
		})
	}
}

func TestValidate_Negative(t *testing.T) {
	p := Default()
	p.ShortMetadataSize = -1
	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, "ARC89-PARAM-010", arcerr.RuleID(err))
}

func TestParameters_Equality(t *testing.T) {
	a, b := Default(), Default()
	assert.True(t, a == b)
	b.ByteMbr++
	assert.False(t, a == b)
}

func TestDeployment(t *testing.T) {
	d := Deployment{Network: "testnet", AppID: 752790676}
	u := d.URI(123)
	s, err := u.Format()
	require.NoError(t, err)
	assert.Equal(t, "algorand://net:testnet/app/752790676?box=AAAAAAAAAHs=", s)
	assert.True(t, d.Matches(u))

	p := d.PartialURI(3)
	assert.True(t, p.IsPartial())
	assert.True(t, p.WithAssetID(123).Equal(d.URI(123, 3)))

	assert.Equal(t, d, Deployment{Network: "testnet", AppID: 752790676})
	assert.True(t, Deployment{}.IsZero())
	assert.False(t, Deployment{AppID: 1}.Matches(u))
}
