package viewport

import "errors"

var (
	// ErrNotInitialized is returned when the scroll container is accessed
	// before BindScrollContainer or after ClearScrollContainer. It signals a
	// programming error in mount order and is never retried.
	ErrNotInitialized = errors.New("viewport: scroll container not initialized")

	// ErrInvalidArguments is returned by the zoom operators when not exactly
	// one of delta or factor is supplied.
	ErrInvalidArguments = errors.New("viewport: invalid arguments")
)
