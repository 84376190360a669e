package history

import "github.com/benbjohnson/immutable"

// State is an immutable snapshot of undo/redo status.
//
// The past and future sequences are persistent lists: transitions share
// structure with their input and never modify it. A nil *State stands for a
// history that has not been initialized yet.
type State[S any] struct {
	past    *immutable.List[S]
	present S
	future  *immutable.List[S]

	// interesting is the most recent present that passed the history
	// filter but has not been pushed onto past yet.
	interesting    S
	hasInteresting bool
}

// NewState builds a snapshot from explicit sequences. past is oldest first,
// future is nearest first. The slices are copied.
func NewState[S any](past []S, present S, future []S) *State[S] {
	return &State[S]{
		past:    immutable.NewList(past...),
		present: present,
		future:  immutable.NewList(future...),
	}
}

// initialState returns a snapshot with empty past and future.
func initialState[S any](present S) *State[S] {
	return &State[S]{
		past:    immutable.NewList[S](),
		present: present,
		future:  immutable.NewList[S](),
	}
}

// Present returns the current state.
func (h *State[S]) Present() S {
	return h.present
}

// Past returns a copy of the past states, oldest first.
func (h *State[S]) Past() []S {
	return toSlice(h.past)
}

// Future returns a copy of the future states, nearest first.
func (h *State[S]) Future() []S {
	return toSlice(h.future)
}

// PastLen returns the number of states available for undo.
func (h *State[S]) PastLen() int {
	return h.past.Len()
}

// FutureLen returns the number of states available for redo.
func (h *State[S]) FutureLen() int {
	return h.future.Len()
}

// CanUndo returns true if undo is available.
func (h *State[S]) CanUndo() bool {
	return h.past.Len() > 0
}

// CanRedo returns true if redo is available.
func (h *State[S]) CanRedo() bool {
	return h.future.Len() > 0
}

// LastInterestingPresent returns the pending present that will be pushed
// onto past by the next boundary-creating action, if any.
func (h *State[S]) LastInterestingPresent() (S, bool) {
	return h.interesting, h.hasInteresting
}

// withInteresting returns a copy of h carrying the given marker.
func (h *State[S]) withInteresting(v S, ok bool) *State[S] {
	next := *h
	next.interesting = v
	next.hasInteresting = ok
	if !ok {
		var zero S
		next.interesting = zero
	}
	return &next
}

// pastEntries returns a view of past without copying it.
func (h *State[S]) pastEntries() Entries[S] {
	return Entries[S]{list: h.past}
}

// lastPast returns the newest past state.
func (h *State[S]) lastPast() (S, bool) {
	if h.past.Len() == 0 {
		var zero S
		return zero, false
	}
	return h.past.Get(h.past.Len() - 1), true
}

func toSlice[S any](l *immutable.List[S]) []S {
	out := make([]S, 0, l.Len())
	itr := l.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = append(out, v)
	}
	return out
}

// concat appends every element of tail to head.
func concat[S any](head, tail *immutable.List[S]) *immutable.List[S] {
	itr := tail.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		head = head.Append(v)
	}
	return head
}

// Entries is a read-only view of a history sequence, oldest first. The zero
// value is empty.
type Entries[S any] struct {
	list *immutable.List[S]
}

// Len returns the number of entries.
func (e Entries[S]) Len() int {
	if e.list == nil {
		return 0
	}
	return e.list.Len()
}

// At returns entry i. It panics if i is out of range.
func (e Entries[S]) At(i int) S {
	return e.list.Get(i)
}

// Last returns the newest entry, if any.
func (e Entries[S]) Last() (S, bool) {
	n := e.Len()
	if n == 0 {
		var zero S
		return zero, false
	}
	return e.list.Get(n - 1), true
}

// Slice copies the entries into a new slice.
func (e Entries[S]) Slice() []S {
	if e.list == nil {
		return []S{}
	}
	return toSlice(e.list)
}
