package locomotion

import "errors"

var (
	ErrNilBody       = errors.New("rigid body is nil")
	ErrNilWorld      = errors.New("physics world is nil")
	ErrNilAnchor     = errors.New("ground check anchor is nil")
	ErrNilSource     = errors.New("input source is nil")
	ErrInvalidTuning = errors.New("invalid tuning")
)
