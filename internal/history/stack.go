package history

import "github.com/benbjohnson/immutable"

// Undo moves the newest past state into present and pushes the old present
// onto the front of future. With an empty past it returns h unchanged.
// The result has no pending interesting present.
func Undo[S any](h *State[S]) *State[S] {
	n := h.past.Len()
	if n == 0 {
		return h
	}
	return &State[S]{
		past:    h.past.Slice(0, n-1),
		present: h.past.Get(n - 1),
		future:  h.future.Prepend(h.present),
	}
}

// Redo moves the nearest future state into present and pushes the old
// present onto the end of past. With an empty future it returns h unchanged.
// Like Undo it leaves no pending interesting present.
func Redo[S any](h *State[S]) *State[S] {
	n := h.future.Len()
	if n == 0 {
		return h
	}
	return &State[S]{
		past:    h.past.Append(h.present),
		present: h.future.Get(0),
		future:  h.future.Slice(1, n),
	}
}

// JumpToPast makes past[i] the present. The states after i in past, the old
// present and the old future become the new future, in that order.
// i == PastLen()-1 is exactly Undo; an index outside past returns h.
// Otherwise the new present becomes the pending interesting present.
func JumpToPast[S any](h *State[S], i int) *State[S] {
	n := h.past.Len()
	if i == n-1 {
		return Undo(h)
	}
	if i < 0 || i >= n {
		return h
	}

	future := h.future.Prepend(h.present)
	for j := n - 1; j > i; j-- {
		future = future.Prepend(h.past.Get(j))
	}

	present := h.past.Get(i)
	return &State[S]{
		past:           h.past.Slice(0, i),
		present:        present,
		future:         future,
		interesting:    present,
		hasInteresting: true,
	}
}

// JumpToFuture makes future[i] the present. The old present and the states
// before i in future are appended to past. i == 0 is exactly Redo; an index
// outside future returns h. Otherwise the new present becomes the pending
// interesting present.
func JumpToFuture[S any](h *State[S], i int) *State[S] {
	n := h.future.Len()
	if i == 0 {
		return Redo(h)
	}
	if i < 0 || i >= n {
		return h
	}

	past := concat(h.past.Append(h.present), h.future.Slice(0, i))
	present := h.future.Get(i)
	return &State[S]{
		past:           past,
		present:        present,
		future:         h.future.Slice(i+1, n),
		interesting:    present,
		hasInteresting: true,
	}
}

// Jump moves n steps through history: forward into future for n > 0 and
// back into past for n < 0. Jump(h, 0) returns h itself.
func Jump[S any](h *State[S], n int) *State[S] {
	switch {
	case n > 0:
		return JumpToFuture(h, n-1)
	case n < 0:
		return JumpToPast(h, h.past.Len()+n)
	default:
		return h
	}
}

// ClearHistory drops past, future and any pending interesting present.
func ClearHistory[S any](h *State[S]) *State[S] {
	return &State[S]{
		past:    immutable.NewList[S](),
		present: h.present,
		future:  immutable.NewList[S](),
	}
}
