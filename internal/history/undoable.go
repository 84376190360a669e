package history

// Reducer is the base state-transition function being wrapped.
type Reducer[S any] interface {
	// Init computes the initial state when there is no previous one.
	Init(a Action) S

	// Reduce computes the next state. Returning a value equal to state
	// signals that the action was a no-op.
	Reduce(state S, a Action) S
}

// ReducerFuncs adapts a pair of functions to the Reducer interface.
type ReducerFuncs[S any] struct {
	InitFunc   func(a Action) S
	ReduceFunc func(state S, a Action) S
}

// Init calls InitFunc, or returns the zero state when it is nil.
func (f ReducerFuncs[S]) Init(a Action) S {
	if f.InitFunc == nil {
		var zero S
		return f.ReduceFunc(zero, a)
	}
	return f.InitFunc(a)
}

// Reduce calls ReduceFunc.
func (f ReducerFuncs[S]) Reduce(state S, a Action) S {
	return f.ReduceFunc(state, a)
}

// StepFunc is the signature of a history-aware reducer.
type StepFunc[S any] func(h *State[S], a Action) *State[S]

// Undoable wraps a Reducer with undo/redo history. It holds no mutable
// state and is safe for concurrent use; serializing dispatches against a
// single current State is up to the caller.
type Undoable[S any] struct {
	reducer Reducer[S]
	config  *Config[S]
}

// New wraps reducer with the given options.
func New[S any](reducer Reducer[S], opts ...Option[S]) *Undoable[S] {
	return &Undoable[S]{
		reducer: reducer,
		config:  NewConfig(opts...),
	}
}

// Config returns the resolved configuration.
func (u *Undoable[S]) Config() *Config[S] {
	return u.config
}

// Func returns Step as a plain function value.
func (u *Undoable[S]) Func() StepFunc[S] {
	return u.Step
}

// Step computes the next history for action a. A nil h initializes the
// history from the wrapped reducer's initial state.
func (u *Undoable[S]) Step(h *State[S], a Action) *State[S] {
	cfg := u.config

	if h == nil {
		present := u.reducer.Init(a)
		s := initialState(present)
		if cfg.HistoryFilter(a, present) {
			s.interesting, s.hasInteresting = present, true
		}
		return s
	}

	o := cfg.classify(a)
	switch o.code {
	case opUndo:
		return Undo(h)
	case opRedo:
		return Redo(h)
	case opJumpToPast:
		return JumpToPast(h, o.index)
	case opJumpToFuture:
		return JumpToFuture(h, o.index)
	case opJump:
		return Jump(h, o.index)
	case opClearHistory:
		return ClearHistory(h)
	}

	return u.forward(h, a)
}

// forward runs an ordinary action through the wrapped reducer.
func (u *Undoable[S]) forward(h *State[S], a Action) *State[S] {
	cfg := u.config

	newPresent := u.reducer.Reduce(h.present, a)

	interesting, hasInteresting := h.interesting, h.hasInteresting
	if cfg.HistoryFilter(a, newPresent) {
		interesting, hasInteresting = newPresent, true
	}

	if cfg.Equal(h.present, newPresent) {
		return h
	}

	if !cfg.ActionFilter(a, h.present, h.pastEntries()) {
		next := h.withInteresting(interesting, hasInteresting)
		next.present = newPresent
		return next
	}

	past := h.past
	if h.hasInteresting {
		last, ok := h.lastPast()
		if !ok || !cfg.Equal(last, h.interesting) {
			past = past.Append(h.interesting)
			if cfg.Limit > 0 && past.Len() > cfg.Limit {
				past = past.Slice(past.Len()-cfg.Limit, past.Len())
			}
		}
	}

	s := initialState(newPresent)
	s.past = past
	s.interesting, s.hasInteresting = interesting, hasInteresting
	return s
}
