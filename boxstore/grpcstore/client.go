// Package grpcstore carries boxstore.Store over gRPC.
package grpcstore

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
)

// Client implements boxstore.Store over a BoxStore gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client BoxStoreClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ boxstore.Store = (*Client)(nil)

type DialOptions struct {
	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Extra options, e.g. a context dialer in tests.
	Options []grpc.DialOption
}

// Dial creates a client for target. Connections are established lazily on
// the first call.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	dialOpts = append(dialOpts, opts.Options...)

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewBoxStoreClient(cc), Timeout: opts.Timeout}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Get(ctx context.Context, key codec.BoxName) ([]byte, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Get(ctx, wrapperspb.Bytes(key.Bytes()))
	if err != nil {
		return nil, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) Put(ctx context.Context, key codec.BoxName, value []byte) error {
	if err := boxstore.CheckValue(value); err != nil {
		return err
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	msg := make([]byte, 0, codec.BoxNameSize+len(value))
	msg = append(msg, key[:]...)
	msg = append(msg, value...)
	_, err := c.client.Put(ctx, wrapperspb.Bytes(msg))
	return mapRPC(err)
}

func (c *Client) Delete(ctx context.Context, key codec.BoxName) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	_, err := c.client.Delete(ctx, wrapperspb.Bytes(key.Bytes()))
	return mapRPC(err)
}

func (c *Client) Has(ctx context.Context, key codec.BoxName) (bool, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Has(ctx, wrapperspb.Bytes(key.Bytes()))
	if err != nil {
		return false, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
