package cidr

import "errors"

var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidCIDR       = errors.New("invalid cidr")
	ErrInvalidSplit      = errors.New("invalid split")
	ErrSplitSizeMismatch = errors.New("split size mismatch")
)
