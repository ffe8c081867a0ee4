package main

import (
	"sync/atomic"
	"time"

	"keychord/beep"
	"keychord/config"
	"keychord/hotkey"
	"keychord/log"
)

// seqState is what the session last saw of one sequence binding.
type seqState struct {
	step    int
	advance time.Time
}

// session subscribes the compiled bindings and fans their activity out to
// the log, the beeper and the display. trace and matched run on the
// delivery path, so seqs needs no lock of its own.
type session struct {
	sink    MatchSink
	beep    bool
	seqs    map[string]*seqState
	matches atomic.Int64
}

func newSession(sink MatchSink, beepOn bool) *session {
	return &session{sink: sink, beep: beepOn, seqs: make(map[string]*seqState)}
}

func (s *session) dispatcher(cfg *config.Config, compiled []config.Compiled) (*hotkey.Dispatcher, error) {
	policy := hotkey.DeliverAll
	if cfg.Dispatch.StopOnHandled {
		policy = hotkey.StopOnHandled
	}
	d := hotkey.NewDispatcher(hotkey.WithHandledPolicy(policy), hotkey.WithTrace(s.trace))

	for _, c := range compiled {
		c := c
		if _, err := d.Subscribe(c.Name, c.Matcher, func(m hotkey.Match) { s.matched(c, m) }); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *session) trace(te hotkey.TraceEvent) {
	step, total, timeout, ok := progressOf(te.Matcher)
	if !ok {
		return
	}
	st := s.seqs[te.Name]
	if st == nil {
		st = &seqState{}
		s.seqs[te.Name] = st
	}

	if st.step > 0 && timeout > 0 && te.Event.Time.Sub(st.advance) > timeout {
		log.Reset(te.Name, "timeout")
		s.sink.Reset(te.Name)
		if s.beep {
			beep.PlayReset()
		}
		st.step = 0
	}

	if te.Matched {
		st.step = 0
		return
	}
	if step > st.step {
		log.Step(te.Name, step, total)
		s.sink.Progress(te.Name, step, total)
		if s.beep {
			beep.PlayStep()
		}
		st.advance = te.Event.Time
	}
	st.step = step
}

// progressOf reports how far a matcher is through its steps. An
// alternation reports its most advanced sequence branch; a plain chord
// has no progress.
func progressOf(m hotkey.Matcher) (step, total int, timeout time.Duration, ok bool) {
	switch m := m.(type) {
	case *hotkey.Sequence:
		step, _ = m.Progress()
		return step, m.Len(), m.Timeout(), true
	case *hotkey.Alternation:
		for i := 0; i < m.Branches(); i++ {
			bs, bt, bto, bok := progressOf(m.Branch(i))
			if bok && (!ok || bs > step) {
				step, total, timeout, ok = bs, bt, bto, true
			}
		}
	}
	return step, total, timeout, ok
}

// stepsOf is the step count shown for a binding.
func stepsOf(m hotkey.Matcher) int {
	if _, total, _, ok := progressOf(m); ok {
		return total
	}
	return 1
}

func (s *session) matched(c config.Compiled, m hotkey.Match) {
	if c.Handled {
		m.Event.Handled = true
	}
	s.matches.Add(1)
	log.Match(c.Name, c.Describe(), m.Event.Time)
	s.sink.Matched(c.Name, c.Describe(), m.Event.Time)
	if s.beep {
		beep.PlayMatch()
	}
}
