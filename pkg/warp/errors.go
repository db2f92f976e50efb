package warp

import "errors"

var (
	// Key errors
	ErrEmptyKey   = errors.New("scrambling key may not be empty")
	ErrBadKeyChar = errors.New("scrambling key may only include A-Z a-z 0-9 + /")

	// Descramble errors
	ErrTruncated = errors.New("input is too short to contain a trailer")
	ErrWrongKey  = errors.New("incorrect scrambling key")
)
