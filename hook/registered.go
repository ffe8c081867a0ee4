//go:build darwin || windows

package hook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.design/x/hotkey"

	keychord "keychord/hotkey"
	"keychord/key"
)

func init() {
	register("registered", backend{
		open: func(o Options) (keychord.Source, error) { return newRegisteredSource(o.Chords) },
		diagnose: func(o Options) (string, error) {
			if _, err := newRegisteredSource(o.Chords); err != nil {
				return "", err
			}
			return fmt.Sprintf("%d chord(s) can be registered with the OS", len(o.Chords)), nil
		},
	})
}

// registeredChord is one OS-level hotkey. The OS only reports the chord as
// a whole, so its keys are replayed as individual transitions.
type registeredChord struct {
	keys []key.Key
	hk   *hotkey.Hotkey
}

// registeredSource registers every configured chord as an OS hotkey. It
// sees nothing but those chords, which is enough for combinations and for
// sequences built from them.
type registeredSource struct {
	chords []registeredChord
	out    chan keychord.Event
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.Mutex
}

func newRegisteredSource(chords [][]key.Key) (*registeredSource, error) {
	s := &registeredSource{
		out:  make(chan keychord.Event, 64),
		stop: make(chan struct{}),
	}
	seen := make(map[string]bool)
	for _, c := range chords {
		keys := key.Normalize(c)
		name := key.FormatCombo(keys)
		if seen[name] {
			continue
		}
		seen[name] = true

		mods, k, err := toRegistered(keys)
		if err != nil {
			return nil, err
		}
		s.chords = append(s.chords, registeredChord{keys: keys, hk: hotkey.New(mods, k)})
	}
	if len(s.chords) == 0 {
		return nil, fmt.Errorf("%w: no chords configured", ErrUnsupportedChord)
	}
	return s, nil
}

// toRegistered splits a chord into OS modifiers and exactly one main key.
func toRegistered(keys []key.Key) ([]hotkey.Modifier, hotkey.Key, error) {
	var (
		mods []hotkey.Modifier
		main []key.Key
	)
	for _, k := range keys {
		if k.IsModifier() {
			m, ok := registeredMods[k.Generic()]
			if !ok {
				return nil, 0, fmt.Errorf("%w: %s: modifier %s", ErrUnsupportedChord, key.FormatCombo(keys), k)
			}
			mods = append(mods, m)
			continue
		}
		main = append(main, k)
	}
	if len(main) != 1 {
		return nil, 0, fmt.Errorf("%w: %s: needs exactly one non-modifier key", ErrUnsupportedChord, key.FormatCombo(keys))
	}
	hk, ok := registeredKeys[main[0]]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s: key %s", ErrUnsupportedChord, key.FormatCombo(keys), main[0])
	}
	return mods, hk, nil
}

func (s *registeredSource) Start(ctx context.Context) (<-chan keychord.Event, error) {
	for i, c := range s.chords {
		if err := c.hk.Register(); err != nil {
			for _, prev := range s.chords[:i] {
				prev.hk.Unregister()
			}
			return nil, fmt.Errorf("registering %s: %w", key.FormatCombo(c.keys), err)
		}
	}
	for _, c := range s.chords {
		s.wg.Add(1)
		go s.relay(c)
	}
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stop:
		}
	}()
	return s.out, nil
}

func (s *registeredSource) relay(c registeredChord) {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case <-c.hk.Keydown():
			for _, k := range c.keys {
				s.send(k, true)
			}
		case <-c.hk.Keyup():
			for i := len(c.keys) - 1; i >= 0; i-- {
				s.send(c.keys[i], false)
			}
		}
	}
}

// send holds mu so the transitions of one chord are not interleaved with
// another's.
func (s *registeredSource) send(k key.Key, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.out <- keychord.Event{Key: k, Down: down, Time: time.Now()}:
	case <-s.stop:
	}
}

func (s *registeredSource) Stop() {
	s.once.Do(func() {
		close(s.stop)
		for _, c := range s.chords {
			c.hk.Unregister()
		}
		s.wg.Wait()
		close(s.out)
	})
}

var registeredKeys = map[key.Key]hotkey.Key{
	key.Space:  hotkey.KeySpace,
	key.Enter:  hotkey.KeyReturn,
	key.Escape: hotkey.KeyEscape,
	key.Delete: hotkey.KeyDelete,
	key.Tab:    hotkey.KeyTab,
	key.Left:   hotkey.KeyLeft,
	key.Right:  hotkey.KeyRight,
	key.Up:     hotkey.KeyUp,
	key.Down:   hotkey.KeyDown,

	key.F1:  hotkey.KeyF1,
	key.F2:  hotkey.KeyF2,
	key.F3:  hotkey.KeyF3,
	key.F4:  hotkey.KeyF4,
	key.F5:  hotkey.KeyF5,
	key.F6:  hotkey.KeyF6,
	key.F7:  hotkey.KeyF7,
	key.F8:  hotkey.KeyF8,
	key.F9:  hotkey.KeyF9,
	key.F10: hotkey.KeyF10,
	key.F11: hotkey.KeyF11,
	key.F12: hotkey.KeyF12,

	key.Num0: hotkey.Key0,
	key.Num1: hotkey.Key1,
	key.Num2: hotkey.Key2,
	key.Num3: hotkey.Key3,
	key.Num4: hotkey.Key4,
	key.Num5: hotkey.Key5,
	key.Num6: hotkey.Key6,
	key.Num7: hotkey.Key7,
	key.Num8: hotkey.Key8,
	key.Num9: hotkey.Key9,

	key.A: hotkey.KeyA,
	key.B: hotkey.KeyB,
	key.C: hotkey.KeyC,
	key.D: hotkey.KeyD,
	key.E: hotkey.KeyE,
	key.F: hotkey.KeyF,
	key.G: hotkey.KeyG,
	key.H: hotkey.KeyH,
	key.I: hotkey.KeyI,
	key.J: hotkey.KeyJ,
	key.K: hotkey.KeyK,
	key.L: hotkey.KeyL,
	key.M: hotkey.KeyM,
	key.N: hotkey.KeyN,
	key.O: hotkey.KeyO,
	key.P: hotkey.KeyP,
	key.Q: hotkey.KeyQ,
	key.R: hotkey.KeyR,
	key.S: hotkey.KeyS,
	key.T: hotkey.KeyT,
	key.U: hotkey.KeyU,
	key.V: hotkey.KeyV,
	key.W: hotkey.KeyW,
	key.X: hotkey.KeyX,
	key.Y: hotkey.KeyY,
	key.Z: hotkey.KeyZ,
}
