package tomo

import "errors"

var (
	// ErrBadTransition indicates a pipeline stage invoked out of order for
	// the dataset's current state.
	ErrBadTransition = errors.New("tomo: invalid stage for dataset state")

	// ErrBadInput indicates malformed dataset construction data: wrong
	// ranks, mismatched dimensions, or an angle count that does not match
	// the projection count.
	ErrBadInput = errors.New("tomo: bad input")

	// ErrNotFound indicates an unknown dataset handle.
	ErrNotFound = errors.New("tomo: dataset not found")

	// ErrBackendUnavailable indicates no reconstruction backend is wired.
	ErrBackendUnavailable = errors.New("tomo: backend unavailable")
)
