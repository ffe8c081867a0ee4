// Package hotkey turns a serialized stream of key-down/key-up events into
// chord and chord-sequence matches.
//
// Matchers are plain state machines fed one event at a time; they hold no
// locks and start no goroutines. A Dispatcher owns the delivery path and
// relays matches to subscribers.
package hotkey

import (
	"context"
	"time"

	"keychord/key"
)

// Event is one physical key transition as reported by a hook backend.
type Event struct {
	Key  key.Key
	Down bool
	Time time.Time

	// Handled is set by a match callback to ask the source to consume the
	// event. Matchers never read it.
	Handled bool
}

// Source produces the raw event stream. Start returns an error when the
// underlying hook cannot be installed; the returned channel is closed when
// the source stops.
type Source interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
}

// Matcher is the contract shared by Combination, Alternation and Sequence.
// Feed reports true exactly on the event that completes a match.
type Matcher interface {
	Feed(ev Event) bool
}

// Resetter is implemented by matchers that keep progress beyond the set of
// held keys. Combination has none; its held keys mirror the keyboard.
type Resetter interface {
	Reset()
}

func resetMatcher(m Matcher) {
	if r, ok := m.(Resetter); ok {
		r.Reset()
	}
}
