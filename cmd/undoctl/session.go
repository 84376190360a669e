package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoable/internal/config"
	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/logging"
	"github.com/dshills/undoable/internal/script"
	"github.com/dshills/undoable/internal/store"
	"github.com/dshills/undoable/internal/watch"
)

// errQuit ends a session normally.
var errQuit = errors.New("quit")

// counterScript is used when no script is configured.
const counterScript = `
function reduce(state, action)
  local n = state or 0
  if action.kind == "inc" then return n + 1 end
  if action.kind == "dec" then return n - 1 end
  if action.kind == "add" and action.args[1] then
    return n + (tonumber(action.args[1]) or 0)
  end
  if action.kind == "set" and action.args[1] then
    return tonumber(action.args[1]) or n
  end
  return state or 0
end
`

type runOptions struct {
	configPath string
	scriptPath string
	limit      int
	limitSet   bool
	logLevel   string
	watch      bool
}

// session owns one store and the script behind it.
type session struct {
	in  io.Reader
	out io.Writer

	settings config.Settings
	logger   *logging.Logger
	store    *store.Store[lua.LValue]
	watcher  *watch.FileWatcher

	mu      sync.Mutex
	reducer *script.Reducer
	kinds   *history.Config[lua.LValue]

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(opts runOptions, in io.Reader, out, errOut io.Writer) (*session, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.scriptPath != "" {
		settings.Script.Path = opts.scriptPath
	}
	if opts.limitSet {
		settings.History.Limit = opts.limit
	}
	if opts.logLevel != "" {
		settings.Log.Level = opts.logLevel
	}
	if opts.watch {
		settings.Script.Watch = true
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  settings.LogLevel(),
		Output: errOut,
		Prefix: "undoctl",
	})

	s := &session{
		in:       in,
		out:      out,
		settings: settings,
		logger:   logger,
		done:     make(chan struct{}),
	}

	reducer, err := s.loadScript()
	if err != nil {
		return nil, err
	}
	u := s.wrap(reducer)

	st, err := store.New(u.Func(), store.WithLogger(logger))
	if err != nil {
		_ = reducer.Close()
		return nil, err
	}
	s.store = st
	s.reducer = reducer
	s.kinds = u.Config()

	if settings.Script.Watch && settings.Script.Path != "" {
		w, err := watch.New(settings.Script.Path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("watching script: %w", err)
		}
		s.watcher = w
		go s.reloadLoop()
	}

	return s, nil
}

func (s *session) loadScript() (*script.Reducer, error) {
	opts := []script.Option{script.WithLogger(s.logger)}
	if s.settings.Script.Path == "" {
		return script.LoadString(counterScript, opts...)
	}
	return script.Load(s.settings.Script.Path, opts...)
}

// wrap builds the history wrapper; script filters override settings filters.
func (s *session) wrap(r *script.Reducer) *history.Undoable[lua.LValue] {
	opts := config.HistoryOptions[lua.LValue](s.settings)
	opts = append(opts, r.Options()...)
	return history.New[lua.LValue](r, opts...)
}

// reload swaps in a freshly loaded script while keeping the history.
func (s *session) reload() error {
	reducer, err := s.loadScript()
	if err != nil {
		return err
	}
	u := s.wrap(reducer)
	if err := s.store.ReplaceReducer(u.Func()); err != nil {
		_ = reducer.Close()
		return err
	}

	s.mu.Lock()
	old := s.reducer
	s.reducer = reducer
	s.kinds = u.Config()
	s.mu.Unlock()

	return old.Close()
}

func (s *session) reloadLoop() {
	log := s.logger.WithComponent("reload")
	for {
		select {
		case <-s.done:
			return
		case c, ok := <-s.watcher.Changes():
			if !ok {
				return
			}
			if err := s.reload(); err != nil {
				log.Error("reload failed", "path", c.Path, "error", err)
				continue
			}
			log.Info("script reloaded", "path", c.Path)
		case err, ok := <-s.watcher.Errors():
			if !ok {
				return
			}
			log.Warn("watch error", "error", err)
		}
	}
}

// Run reads commands until EOF or quit.
func (s *session) Run() error {
	s.print(s.store.State())

	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// exec runs one command line.
func (s *session) exec(line string) error {
	s.mu.Lock()
	kinds := s.kinds
	s.mu.Unlock()

	c, err := parseCommand(line, kinds)
	if err != nil {
		return err
	}

	switch {
	case c.quit:
		return errQuit
	case c.show:
		s.print(s.store.State())
		return nil
	}

	prev := s.store.State()
	next := s.store.Dispatch(c.action)
	if next == prev {
		fmt.Fprintln(s.out, "(no change)")
		return nil
	}
	s.print(next)
	return nil
}

func (s *session) print(h *history.State[lua.LValue]) {
	fmt.Fprintf(s.out, "past: %s | present: %s | future: %s\n",
		formatList(h.Past()), script.Format(h.Present()), formatList(h.Future()))
}

func formatList(vals []lua.LValue) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = script.Format(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Close stops watching and releases the script.
func (s *session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			_ = s.watcher.Close()
		}
		s.mu.Lock()
		if s.reducer != nil {
			_ = s.reducer.Close()
		}
		s.mu.Unlock()
	})
}
