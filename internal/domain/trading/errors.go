package trading

import "errors"

// The four recoverable failure classes of the trade core. Handlers match
// these with errors.Is and translate them to status codes; anything else is
// an internal error.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("trade not found")
	ErrConflict        = errors.New("you already accepted this trade")
)
