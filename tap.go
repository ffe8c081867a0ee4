package main

import (
	"context"
	"sort"

	"keychord/hotkey"
	"keychord/key"
)

// tapSource relays another source's events and reports the set of held
// keys after each one.
type tapSource struct {
	hotkey.Source
	onHeld func([]key.Key)
	held   map[key.Key]bool
}

func newTapSource(src hotkey.Source, onHeld func([]key.Key)) *tapSource {
	return &tapSource{Source: src, onHeld: onHeld, held: make(map[key.Key]bool)}
}

func (t *tapSource) Start(ctx context.Context) (<-chan hotkey.Event, error) {
	in, err := t.Source.Start(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan hotkey.Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			t.onHeld(t.update(ev))
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (t *tapSource) update(ev hotkey.Event) []key.Key {
	if ev.Down {
		t.held[ev.Key] = true
	} else {
		delete(t.held, ev.Key)
	}
	keys := make([]key.Key, 0, len(t.held))
	for k := range t.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
