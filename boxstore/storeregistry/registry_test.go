package storeregistry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
)

type nopStore struct{ boxstore.Multi }

func TestRegisterAndOpen(t *testing.T) {
	var got Options
	MustRegister(Backend{
		Name:  "test-nop",
		Usage: UsageCLI,
		Open: func(opts Options) (boxstore.Store, func() error, error) {
			got = opts
			return nopStore{}, nil, nil
		},
	})

	assert.Contains(t, Names(UsageCLI), "test-nop")
	assert.NotContains(t, Names(UsageDaemon), "test-nop")
	assert.True(t, Known("test-nop", UsageCLI))
	assert.False(t, Known("test-nop", UsageDaemon))

	s, closeFn, err := Open("test-nop", UsageCLI, Options{"k": "v"})
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.Equal(t, "v", got["k"])
	_, err = s.Get(context.Background(), codec.AssetIDToBoxName(1))
	assert.ErrorIs(t, err, boxstore.ErrNotFound)

	_, _, err = Open("test-nop", UsageDaemon, nil)
	assert.Error(t, err)
	_, _, err = Open("missing", UsageCLI, nil)
	assert.Error(t, err)

	assert.Error(t, Register(Backend{Name: "test-nop", Usage: UsageCLI, Open: func(Options) (boxstore.Store, func() error, error) { return nil, nil, nil }}))
	assert.Error(t, Register(Backend{Name: "x"}))
	assert.Error(t, Register(Backend{}))
}

func TestOptions(t *testing.T) {
	o := Options{"dir": "/tmp/x", "timeout": "2s", "n": "3", "bad": "zz"}
	assert.Equal(t, "/tmp/x", o.String("dir", "d"))
	assert.Equal(t, "d", o.String("missing", "d"))

	d, err := o.Duration("timeout", 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
	_, err = o.Duration("bad", 0)
	assert.Error(t, err)

	n, err := o.Int("n", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = o.Int("bad", 0)
	assert.Error(t, err)
	n, err = o.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
