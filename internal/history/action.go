package history

// Default kinds of the reserved control actions.
const (
	UndoType         = "@@undoable/UNDO"
	RedoType         = "@@undoable/REDO"
	JumpToPastType   = "@@undoable/JUMP_TO_PAST"
	JumpToFutureType = "@@undoable/JUMP_TO_FUTURE"
	JumpType         = "@@undoable/JUMP"
	ClearHistoryType = "@@undoable/CLEAR_HISTORY"
)

// Action is anything that can be dispatched through a reducer.
type Action interface {
	// Kind returns the action discriminant.
	Kind() string
}

// Indexed is implemented by actions that carry a jump index.
type Indexed interface {
	Index() int
}

// Control is a plain tagged action with an optional index.
type Control struct {
	Type string
	N    int
}

// Kind returns the action type.
func (c Control) Kind() string { return c.Type }

// Index returns the jump index.
func (c Control) Index() int { return c.N }

// Named returns an action of the given kind.
func Named(kind string) Control {
	return Control{Type: kind}
}

// WithIndex returns an action of the given kind carrying an index.
func WithIndex(kind string, i int) Control {
	return Control{Type: kind, N: i}
}

// UndoAction returns an undo action using the default kind.
func UndoAction() Control { return Named(UndoType) }

// RedoAction returns a redo action using the default kind.
func RedoAction() Control { return Named(RedoType) }

// JumpToPastAction returns an action jumping to past[i].
func JumpToPastAction(i int) Control { return WithIndex(JumpToPastType, i) }

// JumpToFutureAction returns an action jumping to future[i].
func JumpToFutureAction(i int) Control { return WithIndex(JumpToFutureType, i) }

// JumpAction returns an action moving n steps through history.
func JumpAction(n int) Control { return WithIndex(JumpType, n) }

// ClearHistoryAction returns an action dropping past and future.
func ClearHistoryAction() Control { return Named(ClearHistoryType) }

// opCode identifies what a dispatched action does to the history.
type opCode int

const (
	opForward opCode = iota
	opUndo
	opRedo
	opJumpToPast
	opJumpToFuture
	opJump
	opClearHistory
)

// String returns the name of the operation.
func (o opCode) String() string {
	switch o {
	case opForward:
		return "forward"
	case opUndo:
		return "undo"
	case opRedo:
		return "redo"
	case opJumpToPast:
		return "jump_to_past"
	case opJumpToFuture:
		return "jump_to_future"
	case opJump:
		return "jump"
	case opClearHistory:
		return "clear_history"
	default:
		return "unknown"
	}
}

// op is a classified action. Only the jump family uses index.
type op struct {
	code  opCode
	index int
}

// classify maps a raw action onto a history operation using the configured
// kinds. Anything unrecognized is forwarded to the wrapped reducer.
func (c *Config[S]) classify(a Action) op {
	if a == nil {
		return op{code: opForward}
	}
	code, ok := c.kinds[a.Kind()]
	if !ok {
		return op{code: opForward}
	}
	o := op{code: code}
	if ix, ok := a.(Indexed); ok {
		o.index = ix.Index()
	}
	return o
}
