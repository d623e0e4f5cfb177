package physics

import "errors"

var (
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrInvalidSurface = errors.New("invalid surface")
	ErrInvalidBody    = errors.New("invalid rigidbody")
)
