// Package history provides undo/redo tracking for arbitrary state reducers.
//
// A reducer is a pure function from (state, action) to a new state. This
// package wraps such a reducer so that every dispatch also maintains a linear
// history of states:
//
//	past     oldest first, the last element precedes present
//	present  the current state
//	future   nearest first, the first element is the next redo target
//
// # Wrapping a reducer
//
//	counter := history.ReducerFuncs[int]{
//	    InitFunc:   func(history.Action) int { return 0 },
//	    ReduceFunc: reduceCounter,
//	}
//	u := history.New[int](counter, history.WithLimit[int](100))
//
//	var h *history.State[int]          // nil means "not yet initialized"
//	h = u.Step(h, history.Named("INIT"))
//	h = u.Step(h, history.Named("INC"))
//	h = u.Step(h, history.UndoAction())
//
// # Control actions
//
// Six action kinds are reserved and never reach the wrapped reducer: undo,
// redo, jump, jump-to-past, jump-to-future and clear-history. Their kind
// strings default to namespaced constants (see UndoType and friends) and can
// be overridden per wrapper. Out-of-range jump indices are silent no-ops.
//
// # Filters
//
// Two predicates decide how ordinary actions enter the history:
//
//   - ActionFilter decides whether an action opens a new history entry or
//     only updates present in place. Continuous actions (dragging, typing)
//     can be coalesced into a single undo step this way.
//   - HistoryFilter decides whether the resulting present is worth recording
//     at all. A present that fails it is never pushed onto past.
//
// # Identity
//
// States are immutable. Every transition returns a new *State, or the input
// pointer itself when nothing changed, so callers can detect no-ops with ==.
package history
