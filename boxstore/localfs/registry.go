package localfs

import (
	"fmt"

	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/storeregistry"
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "localfs",
		Description: "Local filesystem record store (directory)",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		Open: func(opts storeregistry.Options) (boxstore.Store, func() error, error) {
			dir := opts.String("dir", "")
			if dir == "" {
				return nil, nil, fmt.Errorf("localfs: missing option dir")
			}
			s, err := New(dir)
			if err != nil {
				return nil, nil, err
			}
			return s, nil, nil
		},
	})
}
