package history

import "reflect"

// ActionFilter decides whether an ordinary action opens a new history entry.
// Returning false updates present in place without touching past or future.
// past is a view; call past.Slice only when a copy is needed.
type ActionFilter[S any] func(a Action, present S, past Entries[S]) bool

// HistoryFilter decides whether a resulting present may ever enter past.
type HistoryFilter[S any] func(a Action, newPresent S) bool

// EqualFunc reports whether two states are the same value.
type EqualFunc[S any] func(a, b S) bool

// Config holds the immutable settings of one wrapped reducer.
type Config[S any] struct {
	UndoType         string
	RedoType         string
	JumpToPastType   string
	JumpToFutureType string
	JumpType         string
	ClearHistoryType string

	ActionFilter  ActionFilter[S]
	HistoryFilter HistoryFilter[S]
	Equal         EqualFunc[S]

	// Limit caps the length of past. Zero or negative means unbounded.
	Limit int

	kinds map[string]opCode
}

// Option configures a Config.
type Option[S any] func(*Config[S])

// WithUndoType overrides the undo action kind.
func WithUndoType[S any](kind string) Option[S] {
	return func(c *Config[S]) { c.UndoType = kind }
}

// WithRedoType overrides the redo action kind.
func WithRedoType[S any](kind string) Option[S] {
	return func(c *Config[S]) { c.RedoType = kind }
}

// WithJumpToPastType overrides the jump-to-past action kind.
func WithJumpToPastType[S any](kind string) Option[S] {
	return func(c *Config[S]) { c.JumpToPastType = kind }
}

// WithJumpToFutureType overrides the jump-to-future action kind.
func WithJumpToFutureType[S any](kind string) Option[S] {
	return func(c *Config[S]) { c.JumpToFutureType = kind }
}

// WithJumpType overrides the relative jump action kind.
func WithJumpType[S any](kind string) Option[S] {
	return func(c *Config[S]) { c.JumpType = kind }
}

// WithClearHistoryType overrides the clear-history action kind.
func WithClearHistoryType[S any](kind string) Option[S] {
	return func(c *Config[S]) { c.ClearHistoryType = kind }
}

// WithActionFilter sets the predicate deciding history boundaries.
func WithActionFilter[S any](f ActionFilter[S]) Option[S] {
	return func(c *Config[S]) { c.ActionFilter = f }
}

// WithHistoryFilter sets the predicate deciding which presents are recorded.
func WithHistoryFilter[S any](f HistoryFilter[S]) Option[S] {
	return func(c *Config[S]) { c.HistoryFilter = f }
}

// WithLimit caps the number of past states kept.
func WithLimit[S any](limit int) Option[S] {
	return func(c *Config[S]) { c.Limit = limit }
}

// WithEqual sets the state comparison used for no-op detection and for
// skipping duplicate past entries.
func WithEqual[S any](eq EqualFunc[S]) Option[S] {
	return func(c *Config[S]) { c.Equal = eq }
}

// NewConfig builds a Config, filling every unset field with its default.
func NewConfig[S any](opts ...Option[S]) *Config[S] {
	c := &Config[S]{}
	for _, opt := range opts {
		opt(c)
	}

	if c.UndoType == "" {
		c.UndoType = UndoType
	}
	if c.RedoType == "" {
		c.RedoType = RedoType
	}
	if c.JumpToPastType == "" {
		c.JumpToPastType = JumpToPastType
	}
	if c.JumpToFutureType == "" {
		c.JumpToFutureType = JumpToFutureType
	}
	if c.JumpType == "" {
		c.JumpType = JumpType
	}
	if c.ClearHistoryType == "" {
		c.ClearHistoryType = ClearHistoryType
	}
	if c.ActionFilter == nil {
		c.ActionFilter = func(Action, S, Entries[S]) bool { return true }
	}
	if c.HistoryFilter == nil {
		c.HistoryFilter = func(Action, S) bool { return true }
	}
	if c.Equal == nil {
		c.Equal = Same[S]
	}

	// On colliding kinds the first operation in this order wins.
	c.kinds = make(map[string]opCode, 6)
	for _, k := range []struct {
		kind string
		code opCode
	}{
		{c.UndoType, opUndo},
		{c.RedoType, opRedo},
		{c.JumpToPastType, opJumpToPast},
		{c.JumpToFutureType, opJumpToFuture},
		{c.JumpType, opJump},
		{c.ClearHistoryType, opClearHistory},
	} {
		if _, dup := c.kinds[k.kind]; !dup {
			c.kinds[k.kind] = k.code
		}
	}

	return c
}

// Same compares two states with ==. Pointers, maps, slices and funcs compare
// by identity; values whose dynamic type cannot be compared are never equal.
func Same[S any](a, b S) bool {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	ra, rb := reflect.ValueOf(va), reflect.ValueOf(vb)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if !ra.Comparable() || !rb.Comparable() {
		return false
	}
	return va == vb
}
