package hotkey

import (
	"slices"
	"time"

	"keychord/key"
)

// Sequence matches an ordered list of steps, each of which must be
// satisfied in turn. The gap between two consecutive steps is bounded by
// the timeout, measured from the event that satisfied the previous step; a
// zero timeout never expires.
//
// Expiry is lazy: it is checked when the next event arrives, or when Expire
// is called. A sequence left half-done with no further key activity stays
// half-done until one of those happens.
//
// Key-downs reach only the active step, so a chord belonging to a later
// step has no effect until the sequence gets there. Key-ups reach every
// step: a release can never satisfy a step, and forwarding it keeps a step
// from remembering a key as held after the sequence moved past it.
//
// Modifiers still held when a step is satisfied are handed to the next
// step as fresh key-downs, so "ctrl+k, ctrl+c" matches with Ctrl kept down.
type Sequence struct {
	steps   []Matcher
	timeout time.Duration

	index int
	last  time.Time
	mods  []key.Key
}

func NewSequence(timeout time.Duration, steps ...Matcher) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, configErr("sequence", ErrEmptySequence)
	}
	if timeout < 0 {
		return nil, configErr("sequence", ErrNegativeTimeout)
	}
	for _, s := range steps {
		if s == nil {
			return nil, configErr("sequence", ErrNilMatcher)
		}
	}
	return &Sequence{
		steps:   append([]Matcher(nil), steps...),
		timeout: timeout,
	}, nil
}

func (s *Sequence) Feed(ev Event) bool {
	s.Expire(ev.Time)
	s.trackModifier(ev)

	active := s.index
	matched := s.steps[active].Feed(ev)
	if !ev.Down {
		for i, step := range s.steps {
			if i != active {
				step.Feed(ev)
			}
		}
	}
	if !matched {
		return false
	}

	if active == len(s.steps)-1 {
		s.Reset()
		return true
	}
	resetMatcher(s.steps[active])
	s.index = active + 1
	s.last = ev.Time
	for _, m := range s.mods {
		s.steps[s.index].Feed(Event{Key: m, Down: true, Time: ev.Time})
	}
	return false
}

// trackModifier keeps mods in press order. It follows the keyboard, not
// the progress, so Reset leaves it alone.
func (s *Sequence) trackModifier(ev Event) {
	if !ev.Key.IsModifier() {
		return
	}
	i := slices.Index(s.mods, ev.Key)
	switch {
	case ev.Down && i < 0:
		s.mods = append(s.mods, ev.Key)
	case !ev.Down && i >= 0:
		s.mods = slices.Delete(s.mods, i, i+1)
	}
}

// Expire resets a sequence whose current inter-step gap has run out at
// now. It reports whether a reset happened.
func (s *Sequence) Expire(now time.Time) bool {
	if s.index == 0 || s.timeout == 0 {
		return false
	}
	if now.Sub(s.last) > s.timeout {
		s.Reset()
		return true
	}
	return false
}

// Progress returns the index of the step being waited for and when the
// previous step was satisfied (zero at step 0).
func (s *Sequence) Progress() (step int, since time.Time) {
	return s.index, s.last
}

// Len returns the number of steps.
func (s *Sequence) Len() int { return len(s.steps) }

// Timeout returns the configured inter-step timeout.
func (s *Sequence) Timeout() time.Duration { return s.timeout }

// Reset returns the sequence, and any sequences nested in its steps, to
// the first step.
func (s *Sequence) Reset() {
	s.index = 0
	s.last = time.Time{}
	for _, step := range s.steps {
		resetMatcher(step)
	}
}
