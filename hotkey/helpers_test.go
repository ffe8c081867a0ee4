package hotkey

import (
	"testing"
	"time"

	"keychord/key"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// script feeds synthetic key transitions to a matcher on a virtual clock
// and counts matches.
type script struct {
	t       *testing.T
	m       Matcher
	now     time.Time
	matches int
}

func newScript(t *testing.T, m Matcher) *script {
	t.Helper()
	return &script{t: t, m: m, now: epoch}
}

func (s *script) feed(k key.Key, down bool) bool {
	s.now = s.now.Add(time.Millisecond)
	ok := s.m.Feed(Event{Key: k, Down: down, Time: s.now})
	if ok {
		s.matches++
	}
	return ok
}

func (s *script) down(keys ...key.Key) {
	for _, k := range keys {
		s.feed(k, true)
	}
}

func (s *script) up(keys ...key.Key) {
	for _, k := range keys {
		s.feed(k, false)
	}
}

// press holds keys in order and releases them in reverse, the way an input
// generator presses a chord.
func (s *script) press(keys ...key.Key) {
	s.down(keys...)
	for i := len(keys) - 1; i >= 0; i-- {
		s.feed(keys[i], false)
	}
}

func (s *script) wait(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *script) expect(want int) {
	s.t.Helper()
	if s.matches != want {
		s.t.Fatalf("matches = %d, want %d", s.matches, want)
	}
}

func mustCombo(t *testing.T, keys ...key.Key) *Combination {
	t.Helper()
	c, err := NewCombination(keys)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustAlt(t *testing.T, branches ...Matcher) *Alternation {
	t.Helper()
	a, err := NewAlternation(branches...)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func mustSeq(t *testing.T, timeout time.Duration, steps ...Matcher) *Sequence {
	t.Helper()
	s, err := NewSequence(timeout, steps...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
