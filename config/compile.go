package config

import (
	"errors"
	"fmt"
	"strings"

	"keychord/hotkey"
	"keychord/key"
)

var (
	ErrNoName        = errors.New("binding has no name")
	ErrDuplicateName = errors.New("duplicate binding name")
	ErrKeysAndSeq    = errors.New("set exactly one of keys and sequence")
)

// Compiled pairs a binding with its matcher tree.
type Compiled struct {
	Binding
	Matcher hotkey.Matcher
}

// Compile builds a matcher for every binding, in configuration order.
func (c *Config) Compile() ([]Compiled, error) {
	out := make([]Compiled, 0, len(c.Bindings))
	seen := make(map[string]bool, len(c.Bindings))
	for _, b := range c.Bindings {
		if b.Name == "" {
			return nil, ErrNoName
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("binding %q: %w", b.Name, ErrDuplicateName)
		}
		seen[b.Name] = true

		m, err := b.Compile()
		if err != nil {
			return nil, err
		}
		out = append(out, Compiled{Binding: b, Matcher: m})
	}
	return out, nil
}

// Compile builds the binding's matcher.
//
// Keys and each Sequence entry use the step grammar: alternatives are
// separated by "|", chords inside an alternative by "," (forming a nested
// sequence with the binding's timeout), and keys inside a chord by "+".
// A modifier still held when a step completes counts toward the next one,
// so "ctrl + x, ctrl + s" can be typed without letting go of Ctrl.
func (b Binding) Compile() (hotkey.Matcher, error) {
	m, err := b.compile()
	if err != nil {
		return nil, fmt.Errorf("binding %q: %w", b.Name, err)
	}
	return m, nil
}

func (b Binding) compile() (hotkey.Matcher, error) {
	hasKeys := strings.TrimSpace(b.Keys) != ""
	if hasKeys == (len(b.Sequence) > 0) {
		return nil, ErrKeysAndSeq
	}
	if hasKeys {
		return b.step(b.Keys)
	}

	steps := make([]hotkey.Matcher, 0, len(b.Sequence))
	for _, s := range b.Sequence {
		m, err := b.step(s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, m)
	}
	return hotkey.NewSequence(b.Timeout.Duration, steps...)
}

func (b Binding) step(s string) (hotkey.Matcher, error) {
	alts := strings.Split(s, "|")
	branches := make([]hotkey.Matcher, 0, len(alts))
	for _, alt := range alts {
		m, err := b.alternative(alt)
		if err != nil {
			return nil, err
		}
		branches = append(branches, m)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return hotkey.NewAlternation(branches...)
}

func (b Binding) alternative(s string) (hotkey.Matcher, error) {
	chords := strings.Split(s, ",")
	steps := make([]hotkey.Matcher, 0, len(chords))
	for _, c := range chords {
		m, err := b.chord(c)
		if err != nil {
			return nil, err
		}
		steps = append(steps, m)
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return hotkey.NewSequence(b.Timeout.Duration, steps...)
}

func (b Binding) chord(s string) (*hotkey.Combination, error) {
	keys, err := key.ParseCombo(s)
	if err != nil {
		return nil, err
	}
	var opts []hotkey.CombinationOption
	if b.Exact {
		opts = append(opts, hotkey.Exact())
	}
	return hotkey.NewCombination(keys, opts...)
}

// Chords lists every chord the bindings mention, for backends that must
// register them up front. Invalid chords are skipped; Validate reports them.
func (c *Config) Chords() [][]key.Key {
	var out [][]key.Key
	for _, b := range c.Bindings {
		steps := b.Sequence
		if strings.TrimSpace(b.Keys) != "" {
			steps = []string{b.Keys}
		}
		for _, s := range steps {
			for _, alt := range strings.Split(s, "|") {
				for _, ch := range strings.Split(alt, ",") {
					if keys, err := key.ParseCombo(ch); err == nil {
						out = append(out, keys)
					}
				}
			}
		}
	}
	return out
}
