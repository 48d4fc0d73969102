package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arcerr"
)

func TestARC3MetadataHash_PlainSHA256(t *testing.T) {
	got, err := ARC3MetadataHash([]byte(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "0229d37e33daae149bf40543a5ce1db4459d10f830d5139279aa2bfd5f6485a1", got.Hex())
}

func TestARC3MetadataHash_NonObject(t *testing.T) {
	got, err := ARC3MetadataHash([]byte(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, "49a64717d5d4cb19952e6eac2946415cf6879adacf9908e7d872332d32c6e684", got.Hex())
}

func TestARC3MetadataHash_ExtraMetadata(t *testing.T) {
	got, err := ARC3MetadataHash([]byte(`{"name":"x","extra_metadata":"AQID"}`))
	require.NoError(t, err)
	assert.Equal(t, "3abba1dad4344ec7ddbb0f9c0b7557e2ec08103b5fd866aaeb16b12730dc3371", got.Hex())
}

func TestARC3MetadataHash_ExtraMetadataNotString(t *testing.T) {
	_, err := ARC3MetadataHash([]byte(`{"extra_metadata":5}`))
	require.Error(t, err)
	assert.True(t, arcerr.IsKind(err, arcerr.KindType))
	assert.Equal(t, "ARC3-HASH-003", arcerr.RuleID(err))
	assert.Contains(t, err.Error(), "must be a string")
}

func TestARC3MetadataHash_ExtraMetadataNotBase64(t *testing.T) {
	_, err := ARC3MetadataHash([]byte(`{"extra_metadata":"***"}`))
	require.Error(t, err)
	assert.True(t, arcerr.IsKind(err, arcerr.KindType))
	assert.Equal(t, "ARC3-HASH-004", arcerr.RuleID(err))
	assert.Contains(t, err.Error(), "not valid base64")
}

func TestARC3MetadataHash_InvalidInput(t *testing.T) {
	_, err := ARC3MetadataHash([]byte{0xff, 0xfe})
	assert.Equal(t, "ARC3-HASH-001", arcerr.RuleID(err))

	for _, bad := range []string{"", "{", `{"a":1} x`, `{} }`} {
		_, err := ARC3MetadataHash([]byte(bad))
		require.Error(t, err, bad)
		assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding), bad)
	}
}
