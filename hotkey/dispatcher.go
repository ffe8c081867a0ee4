package hotkey

import (
	"context"
	"fmt"
	"sync"
)

// HandledPolicy fixes whether an event marked handled by one subscriber is
// still delivered to the subscribers registered after it.
type HandledPolicy int

const (
	// DeliverAll feeds every event to every subscriber. Handled only tells
	// the source that someone consumed the event.
	DeliverAll HandledPolicy = iota
	// StopOnHandled stops delivery at the first subscriber whose callback
	// marks the event handled.
	StopOnHandled
)

func (p HandledPolicy) String() string {
	switch p {
	case DeliverAll:
		return "deliver-all"
	case StopOnHandled:
		return "stop-on-handled"
	default:
		return fmt.Sprintf("HandledPolicy(%d)", int(p))
	}
}

// Match is passed to a subscriber's callback.
type Match struct {
	// Name is the subscription name.
	Name string
	// Event is the key event that completed the match. Setting
	// Event.Handled asks the source to consume it.
	Event *Event

	sub *Subscription
}

// Cancel ends the subscription from inside its own callback. No further
// callbacks follow, including for the event being delivered.
func (m Match) Cancel() {
	if m.sub != nil {
		m.sub.closed = true
	}
}

// TraceEvent describes one matcher feed on the delivery path.
type TraceEvent struct {
	Name    string
	Matcher Matcher
	Event   Event
	Matched bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithHandledPolicy(p HandledPolicy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithTrace installs an observer called after every matcher feed, on the
// delivery path and under the dispatcher lock. It must not subscribe or
// unsubscribe.
func WithTrace(fn func(TraceEvent)) Option {
	return func(d *Dispatcher) { d.trace = fn }
}

// Dispatcher feeds a stream of events to its subscribers in registration
// order and relays their matches.
//
// One mutex covers both delivery and subscription changes. Callbacks run
// with it held, so they must be quick and must not call Subscribe or
// Unsubscribe; Match.Cancel is the in-callback way out.
type Dispatcher struct {
	mu     sync.Mutex
	subs   []*Subscription
	policy HandledPolicy
	trace  func(TraceEvent)
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	d       *Dispatcher
	name    string
	matcher Matcher
	onMatch func(Match)
	closed  bool
}

func (s *Subscription) Name() string { return s.name }

// Unsubscribe removes the subscription. Once it returns no further
// callbacks are made for it, even if an event was being delivered when it
// was called. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	s.closed = true
	d.prune()
}

func (d *Dispatcher) Subscribe(name string, m Matcher, onMatch func(Match)) (*Subscription, error) {
	if m == nil {
		return nil, configErr("subscribe "+name, ErrNilMatcher)
	}
	if onMatch == nil {
		return nil, configErr("subscribe "+name, ErrNilCallback)
	}
	s := &Subscription{d: d, name: name, matcher: m, onMatch: onMatch}

	d.mu.Lock()
	d.subs = append(d.subs, s)
	d.mu.Unlock()
	return s, nil
}

// Len returns the number of live subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

// Dispatch delivers one event and reports whether any callback marked it
// handled.
func (d *Dispatcher) Dispatch(ev *Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range d.subs {
		if s.closed {
			continue
		}
		matched := s.matcher.Feed(*ev)
		if d.trace != nil {
			d.trace(TraceEvent{Name: s.name, Matcher: s.matcher, Event: *ev, Matched: matched})
		}
		if matched {
			s.onMatch(Match{Name: s.name, Event: ev, sub: s})
		}
		if ev.Handled && d.policy == StopOnHandled {
			break
		}
	}
	d.prune()
	return ev.Handled
}

// Run installs the source's hook and dispatches its events on the calling
// goroutine until ctx is done or the stream ends. A hook that cannot be
// installed is reported before any event is delivered.
func (d *Dispatcher) Run(ctx context.Context, src Source) error {
	events, err := src.Start(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHookInstall, err)
	}
	defer src.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			d.Dispatch(&ev)
		}
	}
}

func (d *Dispatcher) prune() {
	live := d.subs[:0]
	for _, s := range d.subs {
		if !s.closed {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(d.subs); i++ {
		d.subs[i] = nil
	}
	d.subs = live
}
