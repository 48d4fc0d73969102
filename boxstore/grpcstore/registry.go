package grpcstore

import (
	"fmt"
	"strings"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/storeregistry"
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "grpc",
		Description: "gRPC record store client (talks to arc89-boxd)",
		Usage:       storeregistry.UsageCLI,
		Open: func(opts storeregistry.Options) (boxstore.Store, func() error, error) {
			target := strings.TrimSpace(opts.String("target", ""))
			if target == "" {
				return nil, nil, fmt.Errorf("grpc: missing option target")
			}
			timeout, err := opts.Duration("timeout", 0)
			if err != nil {
				return nil, nil, err
			}
			maxMsg, err := opts.Int("max_msg_bytes", 0)
			if err != nil {
				return nil, nil, err
			}
			client, err := Dial(target, DialOptions{Timeout: timeout, MaxMsgBytes: maxMsg})
			if err != nil {
				return nil, nil, err
			}
			return client, client.Close, nil
		},
	})
}
