package grpcstore

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/codec"
)

// Server exposes a boxstore.Store over the BoxStore gRPC service.
type Server struct {
	UnimplementedBoxStoreServer
	Store boxstore.Store
	// Log receives one debug event per request and a warning for each
	// backend failure. The zero Logger discards everything.
	Log zerolog.Logger
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	key, err := s.begin("get", in.GetValue())
	if err != nil {
		return nil, err
	}
	b, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, s.fail("get", key, err)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	raw := in.GetValue()
	if len(raw) < codec.BoxNameSize {
		return nil, status.Error(codes.InvalidArgument, boxstore.ErrInvalidKey.Error())
	}
	key, err := s.begin("put", raw[:codec.BoxNameSize])
	if err != nil {
		return nil, err
	}
	if err := s.Store.Put(ctx, key, raw[codec.BoxNameSize:]); err != nil {
		return nil, s.fail("put", key, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Delete(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	key, err := s.begin("delete", in.GetValue())
	if err != nil {
		return nil, err
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		return nil, s.fail("delete", key, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	key, err := s.begin("has", in.GetValue())
	if err != nil {
		return nil, err
	}
	ok, err := s.Store.Has(ctx, key)
	if err != nil {
		return nil, s.fail("has", key, err)
	}
	return wrapperspb.Bool(ok), nil
}

func (s *Server) begin(op string, rawKey []byte) (codec.BoxName, error) {
	if s == nil || s.Store == nil {
		return codec.BoxName{}, status.Error(codes.FailedPrecondition, "missing store")
	}
	key, err := codec.BoxNameFromBytes(rawKey)
	if err != nil {
		return codec.BoxName{}, status.Error(codes.InvalidArgument, boxstore.ErrInvalidKey.Error())
	}
	s.Log.Debug().Str("op", op).Uint64("asset_id", key.AssetID()).Msg("boxstore request")
	return key, nil
}

func (s *Server) fail(op string, key codec.BoxName, err error) error {
	if !boxstore.IsNotFound(err) {
		s.Log.Warn().Err(err).Str("op", op).Uint64("asset_id", key.AssetID()).Msg("boxstore backend error")
	}
	return mapErr(err)
}
