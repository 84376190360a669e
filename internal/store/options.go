package store

import "github.com/dshills/undoable/internal/logging"

type storeConfig struct {
	logger *logging.Logger
}

// Option configures a Store.
type Option func(*storeConfig)

// WithLogger sets the logger used for dispatch tracing and listener panics.
func WithLogger(l *logging.Logger) Option {
	return func(c *storeConfig) {
		c.logger = l
	}
}
