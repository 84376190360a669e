package store

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/logging"
)

// Reserved kinds dispatched by the store itself.
const (
	InitType    = "@@undoable/INIT"
	ReplaceType = "@@undoable/REPLACE"
)

// Listener is called after a dispatch produced a new state.
type Listener[S any] func(prev, next *history.State[S], a history.Action)

// Subscription identifies a registered listener.
type Subscription struct {
	id string
}

// ID returns the unique subscription identifier.
func (s Subscription) ID() string { return s.id }

type subscriber[S any] struct {
	id string
	fn Listener[S]
}

// change is a committed transition waiting to be delivered.
type change[S any] struct {
	prev, next *history.State[S]
	action     history.Action
}

// Stats contains dispatch counters.
type Stats struct {
	Dispatched     uint64
	Changed        uint64
	NoOps          uint64
	ListenerPanics uint64
	Subscribers    int
}

// Store holds the current history and serializes dispatches against it.
// Listeners observe changes one at a time in commit order.
type Store[S any] struct {
	mu    sync.Mutex
	step  history.StepFunc[S]
	state *history.State[S]

	// pending is guarded by mu; delivering marks the goroutine draining it.
	pending    []change[S]
	delivering bool

	subsMu sync.RWMutex
	subs   []subscriber[S]

	logger *logging.Logger

	dispatched     atomic.Uint64
	changed        atomic.Uint64
	noops          atomic.Uint64
	listenerPanics atomic.Uint64
}

// New creates a store and initializes its history by dispatching an
// InitType action through the uninitialized state.
func New[S any](step history.StepFunc[S], opts ...Option) (*Store[S], error) {
	if step == nil {
		return nil, ErrNilReducer
	}

	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Discard()
	}

	s := &Store[S]{
		step:   step,
		logger: cfg.logger.WithComponent("store"),
	}
	s.state = step(nil, history.Named(InitType))
	s.logger.Debug("initialized", "present", s.state.Present())
	return s, nil
}

// State returns the current history snapshot.
func (s *Store[S]) State() *history.State[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Present returns the current present value.
func (s *Store[S]) Present() S {
	return s.State().Present()
}

// Dispatch runs a through the reducer and returns the resulting state.
// Listeners are notified only when the state changed. When another
// goroutine, or an enclosing listener, is already delivering, the change is
// queued behind it and Dispatch returns before its listeners run.
func (s *Store[S]) Dispatch(a history.Action) *history.State[S] {
	s.mu.Lock()
	prev := s.state
	next := s.step(prev, a)
	s.state = next
	if next != prev {
		s.pending = append(s.pending, change[S]{prev: prev, next: next, action: a})
	}
	s.mu.Unlock()

	s.dispatched.Add(1)
	if next == prev {
		s.noops.Add(1)
		s.logger.Debug("dispatch no-op", "kind", kindOf(a))
		return next
	}

	s.changed.Add(1)
	s.logger.Debug("dispatch",
		"kind", kindOf(a),
		"past", next.PastLen(),
		"future", next.FutureLen(),
	)
	s.deliver()
	return next
}

// deliver drains pending changes in commit order. Only one goroutine drains
// at a time.
func (s *Store[S]) deliver() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		c := s.pending[0]
		s.pending[0] = change[S]{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.notify(c.prev, c.next, c.action)

		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

// ReplaceReducer swaps the step function and dispatches a ReplaceType
// action through it. The current history is kept.
func (s *Store[S]) ReplaceReducer(step history.StepFunc[S]) error {
	if step == nil {
		return ErrNilReducer
	}

	s.mu.Lock()
	s.step = step
	s.mu.Unlock()

	s.logger.Info("reducer replaced")
	s.Dispatch(history.Named(ReplaceType))
	return nil
}

// Subscribe registers fn to be called after every state-changing dispatch.
func (s *Store[S]) Subscribe(fn Listener[S]) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilListener
	}

	id := uuid.NewString()

	s.subsMu.Lock()
	s.subs = append(s.subs, subscriber[S]{id: id, fn: fn})
	s.subsMu.Unlock()

	return Subscription{id: id}, nil
}

// Unsubscribe removes a listener.
func (s *Store[S]) Unsubscribe(sub Subscription) error {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == sub.id {
			// Copy so an in-flight notify keeps its snapshot intact.
			subs := make([]subscriber[S], 0, len(s.subs)-1)
			subs = append(subs, s.subs[:i]...)
			s.subs = append(subs, s.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Stats returns dispatch counters.
func (s *Store[S]) Stats() Stats {
	s.subsMu.RLock()
	n := len(s.subs)
	s.subsMu.RUnlock()

	return Stats{
		Dispatched:     s.dispatched.Load(),
		Changed:        s.changed.Load(),
		NoOps:          s.noops.Load(),
		ListenerPanics: s.listenerPanics.Load(),
		Subscribers:    n,
	}
}

func (s *Store[S]) notify(prev, next *history.State[S], a history.Action) {
	s.subsMu.RLock()
	subs := s.subs
	s.subsMu.RUnlock()

	for _, sub := range subs {
		s.call(sub, prev, next, a)
	}
}

// call invokes one listener, recovering from panics.
func (s *Store[S]) call(sub subscriber[S], prev, next *history.State[S], a history.Action) {
	defer func() {
		if r := recover(); r != nil {
			s.listenerPanics.Add(1)
			s.logger.Error("listener panicked",
				"subscription", sub.id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	sub.fn(prev, next, a)
}

func kindOf(a history.Action) string {
	if a == nil {
		return ""
	}
	return a.Kind()
}
