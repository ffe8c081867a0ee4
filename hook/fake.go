package hook

import (
	"context"
	"sync"
	"time"

	"keychord/hotkey"
	"keychord/key"
)

// Fake is a scripted Source on a virtual clock. Each simulated transition
// advances the clock by one millisecond.
type Fake struct {
	mu       sync.Mutex
	events   chan hotkey.Event
	done     chan struct{}
	once     sync.Once
	stopped  bool
	now      time.Time
	held     map[key.Key]bool
	startErr error
}

func NewFake() *Fake {
	return &Fake{
		events: make(chan hotkey.Event, 64),
		done:   make(chan struct{}),
		now:    time.Unix(0, 0).UTC(),
		held:   make(map[key.Key]bool),
	}
}

// FailStart makes the next Start return err, as a hook that cannot be
// installed would.
func (f *Fake) FailStart(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

func (f *Fake) Start(ctx context.Context) (<-chan hotkey.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.events, nil
}

// Stop closes the event stream. Later simulated events are dropped.
func (f *Fake) Stop() {
	f.once.Do(func() {
		close(f.done)
		f.mu.Lock()
		f.stopped = true
		close(f.events)
		f.mu.Unlock()
	})
}

// Now returns the virtual clock.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the virtual clock forward without emitting anything.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// SimDown emits a key-down unless the key is already down.
func (f *Fake) SimDown(k key.Key) { f.emit(k, true) }

// SimUp emits a key-up.
func (f *Fake) SimUp(k key.Key) { f.emit(k, false) }

// SimPress holds keys in order and releases them in reverse.
func (f *Fake) SimPress(keys ...key.Key) {
	for _, k := range keys {
		f.SimDown(k)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		f.SimUp(keys[i])
	}
}

func (f *Fake) emit(k key.Key, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	if down && f.held[k] {
		return
	}
	if down {
		f.held[k] = true
	} else {
		delete(f.held, k)
	}
	f.now = f.now.Add(time.Millisecond)
	select {
	case f.events <- hotkey.Event{Key: k, Down: down, Time: f.now}:
	case <-f.done:
	}
}
