package core

import (
	"errors"
)

var (
	// ErrDuplicateSlot is returned when a binding slot index is declared
	// twice within the same schema.
	ErrDuplicateSlot = errors.New("binding slot already registered")
	// ErrAlreadyFinalized is returned by schema mutators called after
	// the layout has been finalized.
	ErrAlreadyFinalized = errors.New("binding schema already finalized")
	// ErrNotFinalized is returned when a layout handle is requested
	// before finalization.
	ErrNotFinalized = errors.New("binding schema not finalized")
	// ErrInvalidAspectRatio is returned for non-positive aspect ratios.
	ErrInvalidAspectRatio = errors.New("aspect ratio must be positive")
	// ErrSizeMismatch is returned when a uniform write does not match
	// the channel's configured byte size exactly.
	ErrSizeMismatch = errors.New("payload size does not match channel byte size")
	// ErrAllocationFailure is returned when a host or device memory
	// request cannot be satisfied.
	ErrAllocationFailure = errors.New("memory allocation failed")
	// ErrChannelDestroyed is returned when a destroyed uniform channel
	// is written or flushed.
	ErrChannelDestroyed = errors.New("uniform channel destroyed")
	// ErrDeviceLost indicates an unresponsive rendering device. Fatal,
	// never retried.
	ErrDeviceLost = errors.New("rendering device lost")
)
