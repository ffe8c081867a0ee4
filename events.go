package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"keychord/key"
)

// MatchSink abstracts the display layer so both the Bubble Tea TUI and
// the plain line printer receive the same dispatcher events.
type MatchSink interface {
	Matched(name, keys string, at time.Time)
	Progress(name string, step, total int)
	Reset(name string)
	Held(keys []key.Key)
}

// lineSink prints one line per match, for scripts and -test mode.
type lineSink struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func (s *lineSink) Matched(name, _ string, _ time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "MATCH %s\n", name)
}

func (s *lineSink) Progress(name string, step, total int) {
	if !s.verbose {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "STEP %s %d/%d\n", name, step, total)
}

func (s *lineSink) Reset(name string) {
	if !s.verbose {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "RESET %s\n", name)
}

func (s *lineSink) Held([]key.Key) {}
