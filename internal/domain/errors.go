package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrRenderWrite        = errors.New("render surface write failed")
	ErrContentUnavailable = errors.New("content unavailable")
	ErrInvariant          = errors.New("display invariant violated")
	ErrNoPlayer           = errors.New("no player available")
	ErrNotSupported       = errors.New("not supported")
	ErrClosed             = errors.New("closed")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
