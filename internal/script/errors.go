package script

import "errors"

// Errors for script loading.
var (
	// ErrNoReduce is returned when a script does not define reduce.
	ErrNoReduce = errors.New("script does not define a reduce function")

	// ErrClosed is returned when using a closed reducer.
	ErrClosed = errors.New("script reducer is closed")
)
