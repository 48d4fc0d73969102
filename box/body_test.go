package box

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arcerr"
	"xdao.co/arc89/cidutil"
	"xdao.co/arc89/params"
)

func TestMetadataBody_Immutable(t *testing.T) {
	src := []byte("abc")
	b := NewMetadataBody(src)
	src[0] = 'x'
	assert.Equal(t, []byte("abc"), b.Bytes())

	out := b.Bytes()
	out[0] = 'y'
	assert.Equal(t, []byte("abc"), b.Bytes())

	pages, err := b.Pages(2)
	require.NoError(t, err)
	pages[0][0] = 'z'
	assert.Equal(t, []byte("abc"), b.Bytes())
}

func TestMetadataBody_Pages(t *testing.T) {
	b := NewMetadataBody(bytes.Repeat([]byte{120}, 250))
	n, err := b.TotalPages(100)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	last, err := b.Page(2, 100)
	require.NoError(t, err)
	assert.Len(t, last, 50)

	_, err = b.Page(3, 100)
	assert.True(t, arcerr.IsKind(err, arcerr.KindRange))
	_, err = b.Page(-1, 100)
	assert.True(t, arcerr.IsKind(err, arcerr.KindRange))

	empty := NewMetadataBody(nil)
	n, err = empty.TotalPages(100)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.IsShort(params.Default()))
}

func TestMetadataBody_JSON(t *testing.T) {
	o, err := NewMetadataBody([]byte(testBody)).JSON()
	require.NoError(t, err)
	v, ok := o.Get("name")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "Test", s)

	o, err = NewMetadataBody(nil).JSON()
	require.NoError(t, err)
	assert.Equal(t, 0, o.Len())

	_, err = NewMetadataBody([]byte("[1]")).JSON()
	assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding))
}

func TestMetadataBody_CID(t *testing.T) {
	b := NewMetadataBody([]byte(testBody))
	assert.Equal(t, cidutil.CIDv1RawSHA256([]byte(testBody)), b.CID())
}
