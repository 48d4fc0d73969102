// Package ipfs publishes record bodies to a local IPFS repository through the
// Kubo "ipfs" CLI.
//
// Bodies are stored as raw blocks so that their CID is the record body CID
// (CIDv1, raw codec, sha2-256; see box.MetadataBody.CID). Every read is
// checked against the requested CID; reachability is not validity.
//
// The package does not embed a network client. It shells out to the local
// CLI and needs no running daemon.
package ipfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ipfs/go-cid"

	"xdao.co/arc89/box"
	"xdao.co/arc89/cidutil"
)

var (
	ErrNotFound    = errors.New("ipfs: block not found")
	ErrCIDMismatch = errors.New("ipfs: CID mismatch")
	ErrInvalidCID  = errors.New("ipfs: invalid CID")
)

// Client runs the ipfs binary.
type Client struct {
	bin string
	env []string
}

type Options struct {
	// Bin is the path to the ipfs binary. If empty, "ipfs" is used.
	Bin string
	// Env optionally overrides the command environment (e.g. to set IPFS_PATH).
	// If nil, the process environment is used.
	Env []string
}

func New(opts Options) *Client {
	bin := opts.Bin
	if bin == "" {
		bin = "ipfs"
	}
	return &Client{bin: bin, env: opts.Env}
}

// Put stores data as a raw block and returns its CID.
func (c *Client) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawSHA256CID(data)
	if err != nil {
		return cid.Undef, err
	}

	out, err := c.run(ctx, data,
		"block", "put",
		"--quiet",
		"--format=raw",
		"--mhtype=sha2-256",
		"--mhlen=32",
		"--cid-version=1",
		"/dev/stdin",
	)
	if err != nil {
		return cid.Undef, err
	}

	got, err := cid.Decode(strings.TrimSpace(string(out)))
	if err != nil {
		return cid.Undef, fmt.Errorf("ipfs: unexpected block put output: %w", err)
	}
	if !got.Equals(id) {
		return cid.Undef, fmt.Errorf("%w: stored %s, expected %s", ErrCIDMismatch, got, id)
	}
	return id, nil
}

// PutBody publishes a record body. The returned CID equals body.CID().
func (c *Client) PutBody(ctx context.Context, body box.MetadataBody) (cid.Cid, error) {
	return c.Put(ctx, body.Bytes())
}

// Get fetches a block and verifies it against id.
func (c *Client) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}

	out, err := c.run(ctx, nil, "block", "get", id.String())
	if err != nil {
		if isLikelyNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	if !cidutil.Matches(id, out) {
		return nil, fmt.Errorf("%w: %s", ErrCIDMismatch, id)
	}
	return out, nil
}

// GetURL fetches the block an ipfs:// URL names.
func (c *Client) GetURL(ctx context.Context, url string) ([]byte, error) {
	id, err := cidutil.ParseIPFSURL(url)
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, id)
}

// Has reports whether the local repository holds id.
func (c *Client) Has(ctx context.Context, id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := c.run(ctx, nil, "block", "stat", id.String())
	return err == nil
}

func (c *Client) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	if c.env != nil {
		cmd.Env = c.env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		s := strings.TrimSpace(string(ee.Stderr))
		if s == "" {
			return nil, fmt.Errorf("ipfs: %v", err)
		}
		return nil, fmt.Errorf("ipfs: %s", s)
	}
	return nil, err
}

func isLikelyNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found")
}
