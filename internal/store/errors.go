package store

import "errors"

// Sentinel errors for the store.
var (
	// ErrNilReducer is returned when a nil step function is supplied.
	ErrNilReducer = errors.New("reducer cannot be nil")

	// ErrNilListener is returned when subscribing a nil listener.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
