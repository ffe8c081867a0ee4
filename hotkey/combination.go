package hotkey

import "keychord/key"

// Combination matches a chord: a set of keys that are all down at once.
//
// A match fires on the key-down that completes the set and then latches;
// it fires again only after the set has been broken by a release and
// completed once more. Press order does not matter. Non-required keys are
// ignored unless the combination was built with Exact.
type Combination struct {
	keys    []key.Key
	exact   bool
	down    map[key.Key]struct{}
	latched bool
}

// CombinationOption configures a Combination.
type CombinationOption func(*Combination)

// Exact makes the combination refuse to match while any key outside the
// required set is held down.
func Exact() CombinationOption {
	return func(c *Combination) { c.exact = true }
}

// NewCombination builds a chord matcher. Duplicate keys collapse.
func NewCombination(keys []key.Key, opts ...CombinationOption) (*Combination, error) {
	if len(keys) == 0 {
		return nil, configErr("combination", ErrEmptyCombination)
	}
	for _, k := range keys {
		if !k.Valid() {
			return nil, configErr("combination", key.ErrUnknownKey)
		}
	}
	c := &Combination{
		keys: key.Normalize(keys),
		down: make(map[key.Key]struct{}, len(keys)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Keys returns the required set in sorted order.
func (c *Combination) Keys() []key.Key {
	out := make([]key.Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Held reports whether the combination currently counts k as down.
func (c *Combination) Held(k key.Key) bool {
	_, ok := c.down[k]
	return ok
}

func (c *Combination) String() string {
	return key.FormatCombo(c.keys)
}

func (c *Combination) Feed(ev Event) bool {
	if !c.exact && !c.requires(ev.Key) {
		return false
	}

	if !ev.Down {
		delete(c.down, ev.Key)
		if !c.complete() {
			c.latched = false
		}
		return false
	}

	c.down[ev.Key] = struct{}{}
	if c.latched || !c.complete() {
		return false
	}
	if c.exact && c.hasExtras() {
		return false
	}
	c.latched = true
	return true
}

func (c *Combination) requires(k key.Key) bool {
	for _, r := range c.keys {
		if k.Satisfies(r) {
			return true
		}
	}
	return false
}

func (c *Combination) complete() bool {
	for _, r := range c.keys {
		found := false
		for k := range c.down {
			if k.Satisfies(r) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *Combination) hasExtras() bool {
	for k := range c.down {
		if !c.requires(k) {
			return true
		}
	}
	return false
}
