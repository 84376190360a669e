package script

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/logging"
)

const counterScript = `
function reduce(state, action)
  local n = state or 0
  if action.kind == "INC" then return n + 1 end
  if action.kind == "DEC" then return n - 1 end
  if action.kind == "DOUBLE" then return n * 2 end
  if action.kind == "ADD" then return n + tonumber(action.args[1]) end
  return state or 0
end

function history_filter(action, state)
  return action.kind ~= "DOUBLE"
end

function action_filter(action, state, past_len)
  return action.kind ~= "DOUBLE" and action.kind ~= "DEC"
end
`

func mustLoad(t *testing.T, src string, opts ...Option) *Reducer {
	t.Helper()
	r, err := LoadString(src, opts...)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func presents(vals []lua.LValue) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = Format(v)
	}
	return strings.Join(parts, " ")
}

func TestLoadRequiresReduce(t *testing.T) {
	_, err := LoadString(`function init(a) return 0 end`)
	if !errors.Is(err, ErrNoReduce) {
		t.Errorf("error = %v, want ErrNoReduce", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	if _, err := LoadString(`function reduce(`); err == nil {
		t.Error("expected syntax error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.lua")
	if err := os.WriteFile(path, []byte(counterScript), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer r.Close()

	if r.Name() != path {
		t.Errorf("Name() = %q", r.Name())
	}
	if got := r.Reduce(lua.LNumber(1), history.Named("INC")); got != lua.LNumber(2) {
		t.Errorf("Reduce() = %v, want 2", got)
	}
}

func TestReducerWithHistory(t *testing.T) {
	r := mustLoad(t, counterScript)
	u := history.New[lua.LValue](r, r.Options()...)

	h := u.Step(nil, history.Named("INIT"))
	for _, k := range []string{"INC", "DOUBLE", "DOUBLE", "INC", "DEC", "INC"} {
		h = u.Step(h, history.Named(k))
	}

	if got := presents(h.Past()); got != "0 1 4" {
		t.Errorf("past = %s, want 0 1 4", got)
	}
	if h.Present() != lua.LNumber(5) {
		t.Errorf("present = %v, want 5", h.Present())
	}
}

func TestReduceArgs(t *testing.T) {
	r := mustLoad(t, counterScript)
	got := r.Reduce(lua.LNumber(1), Call{Type: "ADD", Args: []string{"41"}})
	if got != lua.LNumber(42) {
		t.Errorf("Reduce() = %v, want 42", got)
	}
}

func TestReduceIndex(t *testing.T) {
	r := mustLoad(t, `function reduce(s, a) return a.index or -1 end`)
	if got := r.Reduce(lua.LNil, history.JumpAction(3)); got != lua.LNumber(3) {
		t.Errorf("Reduce() = %v, want 3", got)
	}
}

func TestInit(t *testing.T) {
	r := mustLoad(t, `
function init(action) return {count = 0, items = {}} end
function reduce(state, action) return state end
`)
	if got := Format(r.Init(history.Named("INIT"))); got != "{count=0, items={}}" {
		t.Errorf("Init() = %s", got)
	}
}

func TestTableIdentityIsNoOp(t *testing.T) {
	r := mustLoad(t, `
function init(action) return {n = 0} end
function reduce(state, action)
  if action.kind == "INC" then return {n = state.n + 1} end
  return state
end
`)
	u := history.New[lua.LValue](r)
	h := u.Step(nil, history.Named("INIT"))
	if got := u.Step(h, history.Named("NOTHING")); got != h {
		t.Error("returning the same table should be a no-op")
	}

	h = u.Step(h, history.Named("INC"))
	if Format(h.Present()) != "{n=1}" || h.PastLen() != 1 {
		t.Errorf("present = %s past = %d", Format(h.Present()), h.PastLen())
	}
}

func TestReduceErrorKeepsState(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	r := mustLoad(t, `function reduce(s, a) error("bad action") end`, WithLogger(logger))

	state := lua.LNumber(7)
	if got := r.Reduce(state, history.Named("X")); got != state {
		t.Errorf("Reduce() = %v, want unchanged state", got)
	}
	if !strings.Contains(buf.String(), "reduce failed") {
		t.Errorf("failure not logged: %q", buf.String())
	}
}

func TestTimeout(t *testing.T) {
	r := mustLoad(t, `
function reduce(s, a)
  if a.kind == "LOOP" then while true do end end
  return s
end
`, WithTimeout(50*time.Millisecond))

	done := make(chan lua.LValue, 1)
	go func() { done <- r.Reduce(lua.LNumber(1), history.Named("LOOP")) }()

	select {
	case got := <-done:
		if got != lua.LNumber(1) {
			t.Errorf("Reduce() = %v, want unchanged state", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("script call was not interrupted")
	}
}

func TestSandbox(t *testing.T) {
	for _, src := range []string{
		`os.exit(1)`,
		`io.write("x")`,
		`dofile("/etc/passwd")`,
		`require("os")`,
	} {
		_, err := LoadString(src + "\nfunction reduce(s, a) return s end")
		if err == nil {
			t.Errorf("%q should fail in the sandbox", src)
		}
	}
}

func TestFiltersAbsent(t *testing.T) {
	r := mustLoad(t, `function reduce(s, a) return s end`)
	if r.HistoryFilter() != nil || r.ActionFilter() != nil {
		t.Error("filters should be nil when not defined")
	}
	if len(r.Options()) != 0 {
		t.Error("Options() should be empty")
	}
}

func TestClosed(t *testing.T) {
	r, err := LoadString(counterScript)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if got := r.Reduce(lua.LNumber(1), history.Named("INC")); got != lua.LNumber(1) {
		t.Errorf("Reduce() on closed reducer = %v", got)
	}
}

func TestFormat(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(`v = {1, "two", {x = true}, name = "n", [10] = 3}`); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		value    lua.LValue
		expected string
	}{
		{lua.LNil, "nil"},
		{lua.LNumber(1.5), "1.5"},
		{lua.LString("a"), `"a"`},
		{lua.LTrue, "true"},
		{L.GetGlobal("v"), `{1, "two", {x=true}, [10]=3, name="n"}`},
	}
	for _, tt := range tests {
		if got := Format(tt.value); got != tt.expected {
			t.Errorf("Format() = %s, want %s", got, tt.expected)
		}
	}
}
