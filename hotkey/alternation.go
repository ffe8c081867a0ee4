package hotkey

// Alternation matches when any one of its branches matches.
//
// Every branch sees every event, in configuration order, so each keeps its
// own bookkeeping current and can fire again later independently of the
// others. When several branches complete on the same event the first one
// configured wins.
type Alternation struct {
	branches []Matcher
}

func NewAlternation(branches ...Matcher) (*Alternation, error) {
	if len(branches) == 0 {
		return nil, configErr("alternation", ErrNoBranches)
	}
	for _, b := range branches {
		if b == nil {
			return nil, configErr("alternation", ErrNilMatcher)
		}
	}
	return &Alternation{branches: append([]Matcher(nil), branches...)}, nil
}

// Match feeds ev to all branches and returns the index of the first branch
// that matched.
func (a *Alternation) Match(ev Event) (branch int, ok bool) {
	branch = -1
	for i, b := range a.branches {
		if b.Feed(ev) && branch < 0 {
			branch = i
		}
	}
	return branch, branch >= 0
}

func (a *Alternation) Feed(ev Event) bool {
	_, ok := a.Match(ev)
	return ok
}

// Branches returns the number of branches.
func (a *Alternation) Branches() int { return len(a.branches) }

// Branch returns branch i in configuration order.
func (a *Alternation) Branch(i int) Matcher { return a.branches[i] }

// Reset clears the progress of branches that carry any.
func (a *Alternation) Reset() {
	for _, b := range a.branches {
		resetMatcher(b)
	}
}
