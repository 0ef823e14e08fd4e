package locker

import "errors"

// Domain errors surfaced directly to HTTP callers. Handlers map them onto
// status codes with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidKey  = errors.New("invalid key")
	ErrKeyExpired  = errors.New("key expired")
	ErrKeyMismatch = errors.New("key already in use by another account")
	ErrBadRequest  = errors.New("bad request")
)
