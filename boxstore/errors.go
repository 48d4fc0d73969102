package boxstore

import "errors"

var (
	ErrNotFound      = errors.New("boxstore: not found")
	ErrValueTooLarge = errors.New("boxstore: value too large")
	ErrInvalidKey    = errors.New("boxstore: invalid key")
	ErrNoBackends    = errors.New("boxstore: no backends")
	ErrNotListable   = errors.New("boxstore: store cannot list keys")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
