// Package store hosts a history-tracking reducer as a single-writer state
// container.
//
// The history package is purely functional and leaves serializing
// dispatches to its caller. Store is that caller: it owns the current
// *history.State, runs one dispatch at a time and tells subscribers about
// every dispatch whose result is a different state.
//
//	u := history.New[int](counter)
//	s, err := store.New(u.Func(), store.WithLogger(logger))
//	sub, _ := s.Subscribe(func(prev, next *history.State[int], a history.Action) {
//	    render(next.Present())
//	})
//	s.Dispatch(history.Named("INC"))
//	s.Dispatch(history.UndoAction())
//
// Listeners run after the dispatch lock is released, so a listener may
// dispatch again.
package store
