package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoable/internal/history"
)

// Call is an ordinary action with string arguments.
type Call struct {
	Type string
	Args []string
}

// Kind returns the action type.
func (c Call) Kind() string { return c.Type }

// Arguments returns the action arguments.
func (c Call) Arguments() []string { return c.Args }

// argumented is implemented by actions carrying string arguments.
type argumented interface {
	Arguments() []string
}

// actionTable converts an action into the table passed to script functions.
func actionTable(L *lua.LState, a history.Action) *lua.LTable {
	t := L.NewTable()
	if a == nil {
		return t
	}
	t.RawSetString("kind", lua.LString(a.Kind()))
	if ix, ok := a.(history.Indexed); ok {
		t.RawSetString("index", lua.LNumber(ix.Index()))
	}
	if args, ok := a.(argumented); ok {
		at := L.CreateTable(len(args.Arguments()), 0)
		for _, s := range args.Arguments() {
			at.Append(lua.LString(s))
		}
		t.RawSetString("args", at)
	}
	return t
}
