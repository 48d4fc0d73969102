package memstore

import (
	"xdao.co/arc89/boxstore"
	"xdao.co/arc89/boxstore/storeregistry"
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "memory",
		Description: "In-memory record store (lost on exit)",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		Open: func(storeregistry.Options) (boxstore.Store, func() error, error) {
			return New(), nil, nil
		},
	})
}
