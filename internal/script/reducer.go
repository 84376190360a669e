package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/logging"
)

// DefaultTimeout bounds a single script call.
const DefaultTimeout = time.Second

// Script function names.
const (
	fnInit          = "init"
	fnReduce        = "reduce"
	fnHistoryFilter = "history_filter"
	fnActionFilter  = "action_filter"
)

// Option configures a Reducer.
type Option func(*Reducer)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Reducer) {
		r.timeout = d
	}
}

// WithLogger sets the logger for script failures.
func WithLogger(l *logging.Logger) Option {
	return func(r *Reducer) {
		r.logger = l
	}
}

// Reducer is a history.Reducer backed by a Lua script. Calls are serialized;
// the underlying Lua state is not goroutine-safe.
type Reducer struct {
	mu     sync.Mutex
	L      *lua.LState
	name   string
	closed bool

	timeout time.Duration
	logger  *logging.Logger

	hasInit          bool
	hasHistoryFilter bool
	hasActionFilter  bool
}

// Load compiles and runs the script at path.
func Load(path string, opts ...Option) (*Reducer, error) {
	return load(path, func(L *lua.LState) error { return L.DoFile(path) }, opts)
}

// LoadString compiles and runs a script held in memory.
func LoadString(src string, opts ...Option) (*Reducer, error) {
	return load("<string>", func(L *lua.LState) error { return L.DoString(src) }, opts)
}

func load(name string, run func(*lua.LState) error, opts []Option) (*Reducer, error) {
	r := &Reducer{
		name:    name,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	r.logger = r.logger.WithComponent("script").WithField("script", name)

	L, err := newSandboxedState()
	if err != nil {
		return nil, err
	}
	r.L = L

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	L.SetContext(ctx)
	err = run(L)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("loading script %s: %w", name, err)
	}

	if !r.isFunc(fnReduce) {
		L.Close()
		return nil, fmt.Errorf("loading script %s: %w", name, ErrNoReduce)
	}
	r.hasInit = r.isFunc(fnInit)
	r.hasHistoryFilter = r.isFunc(fnHistoryFilter)
	r.hasActionFilter = r.isFunc(fnActionFilter)

	r.logger.Debug("script loaded",
		"init", r.hasInit,
		"history_filter", r.hasHistoryFilter,
		"action_filter", r.hasActionFilter,
	)
	return r, nil
}

// newSandboxedState opens only the libraries scripts may use.
func newSandboxedState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("opening lua library %q: %w", lib.name, err)
		}
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L, nil
}

func (r *Reducer) isFunc(name string) bool {
	return r.L.GetGlobal(name).Type() == lua.LTFunction
}

// Name returns the script path or "<string>".
func (r *Reducer) Name() string {
	return r.name
}

// call invokes a global function and returns its first result.
func (r *Reducer) call(fn string, args ...lua.LValue) (lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return lua.LNil, ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	err := r.L.CallByParam(lua.P{
		Fn:      r.L.GetGlobal(fn),
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return lua.LNil, err
	}

	ret := r.L.Get(-1)
	r.L.Pop(1)
	return ret, nil
}

// newAction builds an action table under the lock.
func (r *Reducer) newAction(a history.Action) lua.LValue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return lua.LNil
	}
	return actionTable(r.L, a)
}

// Init returns the script's initial state, or reduce(nil, action) when the
// script has no init function.
func (r *Reducer) Init(a history.Action) lua.LValue {
	if !r.hasInit {
		return r.Reduce(lua.LNil, a)
	}
	v, err := r.call(fnInit, r.newAction(a))
	if err != nil {
		r.logger.Error("init failed", "kind", kindOf(a), "error", err)
		return lua.LNil
	}
	return v
}

// Reduce runs the script's reduce function. On failure the state is
// returned unchanged.
func (r *Reducer) Reduce(state lua.LValue, a history.Action) lua.LValue {
	if state == nil {
		state = lua.LNil
	}
	v, err := r.call(fnReduce, state, r.newAction(a))
	if err != nil {
		r.logger.Error("reduce failed", "kind", kindOf(a), "error", err)
		return state
	}
	return v
}

// HistoryFilter returns the script's history filter, or nil when the script
// does not define one.
func (r *Reducer) HistoryFilter() history.HistoryFilter[lua.LValue] {
	if !r.hasHistoryFilter {
		return nil
	}
	return func(a history.Action, present lua.LValue) bool {
		v, err := r.call(fnHistoryFilter, r.newAction(a), present)
		if err != nil {
			r.logger.Warn("history_filter failed", "kind", kindOf(a), "error", err)
			return true
		}
		return lua.LVAsBool(v)
	}
}

// ActionFilter returns the script's action filter, or nil when the script
// does not define one.
func (r *Reducer) ActionFilter() history.ActionFilter[lua.LValue] {
	if !r.hasActionFilter {
		return nil
	}
	return func(a history.Action, present lua.LValue, past history.Entries[lua.LValue]) bool {
		v, err := r.call(fnActionFilter, r.newAction(a), present, lua.LNumber(past.Len()))
		if err != nil {
			r.logger.Warn("action_filter failed", "kind", kindOf(a), "error", err)
			return true
		}
		return lua.LVAsBool(v)
	}
}

// Options returns history options wiring the script's filters.
func (r *Reducer) Options() []history.Option[lua.LValue] {
	var opts []history.Option[lua.LValue]
	if f := r.HistoryFilter(); f != nil {
		opts = append(opts, history.WithHistoryFilter(f))
	}
	if f := r.ActionFilter(); f != nil {
		opts = append(opts, history.WithActionFilter(f))
	}
	return opts
}

// Close releases the Lua state.
func (r *Reducer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.L.Close()
	return nil
}

func kindOf(a history.Action) string {
	if a == nil {
		return ""
	}
	return a.Kind()
}
