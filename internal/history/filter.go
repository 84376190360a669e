package history

// Common filter predicates for wrapped reducers.

func kindSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// IncludeKinds records only presents produced by actions of the given kinds.
func IncludeKinds[S any](kinds ...string) HistoryFilter[S] {
	set := kindSet(kinds)
	return func(a Action, _ S) bool {
		return a != nil && set[a.Kind()]
	}
}

// ExcludeKinds never records presents produced by actions of the given kinds.
func ExcludeKinds[S any](kinds ...string) HistoryFilter[S] {
	set := kindSet(kinds)
	return func(a Action, _ S) bool {
		return a == nil || !set[a.Kind()]
	}
}

// CoalesceKinds returns an ActionFilter under which actions of the given
// kinds update present in place instead of opening a new history entry.
func CoalesceKinds[S any](kinds ...string) ActionFilter[S] {
	set := kindSet(kinds)
	return func(a Action, _ S, _ Entries[S]) bool {
		return a == nil || !set[a.Kind()]
	}
}

// AllHistory combines history filters; a present is recorded only if every
// filter accepts it.
func AllHistory[S any](filters ...HistoryFilter[S]) HistoryFilter[S] {
	return func(a Action, present S) bool {
		for _, f := range filters {
			if !f(a, present) {
				return false
			}
		}
		return true
	}
}

// AllActions combines action filters; a boundary is opened only if every
// filter accepts the action.
func AllActions[S any](filters ...ActionFilter[S]) ActionFilter[S] {
	return func(a Action, present S, past Entries[S]) bool {
		for _, f := range filters {
			if !f(a, present, past) {
				return false
			}
		}
		return true
	}
}
