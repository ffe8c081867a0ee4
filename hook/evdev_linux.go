//go:build linux

package hook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/holoplot/go-evdev"

	"keychord/hotkey"
	"keychord/key"
)

const defaultBackend = "evdev"

func init() {
	register("evdev", backend{
		open:     func(o Options) (hotkey.Source, error) { return newEvdevSource(o.Devices), nil },
		diagnose: func(o Options) (string, error) { return diagnoseEvdev(o.Devices) },
	})
}

const (
	evRelease = 0
	evPress   = 1
	evRepeat  = 2
)

// evdevSource reads raw key events from every keyboard under /dev/input.
// The kernel delivers each device's events in order with their own
// timestamps; events from separate devices are merged onto one channel.
type evdevSource struct {
	paths   []string
	devices []*evdev.InputDevice
	out     chan hotkey.Event
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once

	mu   sync.Mutex
	held map[evdev.EvCode]bool
}

func newEvdevSource(paths []string) *evdevSource {
	return &evdevSource{
		paths: paths,
		out:   make(chan hotkey.Event, 64),
		stop:  make(chan struct{}),
		held:  make(map[evdev.EvCode]bool),
	}
}

func (s *evdevSource) Start(ctx context.Context) (<-chan hotkey.Event, error) {
	paths := s.paths
	if len(paths) == 0 {
		found, err := findKeyboards()
		if err != nil {
			return nil, fmt.Errorf("finding keyboards: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
		}
		paths = found
	}

	for _, path := range paths {
		d, err := evdev.Open(path)
		if err != nil {
			continue
		}
		s.devices = append(s.devices, d)
	}
	if len(s.devices) == 0 {
		return nil, fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	for _, d := range s.devices {
		s.wg.Add(1)
		go s.readEvents(d)
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

func (s *evdevSource) readEvents(d *evdev.InputDevice) {
	defer s.wg.Done()
	for {
		raw, err := d.ReadOne()
		if err != nil {
			return
		}
		ev, ok := s.translate(raw)
		if !ok {
			continue
		}
		select {
		case s.out <- ev:
		case <-s.stop:
			return
		}
	}
}

// translate converts a raw input event, dropping non-key events, unknown
// codes, auto-repeat and downs for keys already held.
func (s *evdevSource) translate(raw *evdev.InputEvent) (hotkey.Event, bool) {
	if raw.Type != evdev.EV_KEY || raw.Value == evRepeat {
		return hotkey.Event{}, false
	}
	k, ok := evdevKeys[raw.Code]
	if !ok {
		return hotkey.Event{}, false
	}
	down := raw.Value == evPress

	s.mu.Lock()
	if down && s.held[raw.Code] {
		s.mu.Unlock()
		return hotkey.Event{}, false
	}
	if down {
		s.held[raw.Code] = true
	} else {
		delete(s.held, raw.Code)
	}
	s.mu.Unlock()

	return hotkey.Event{
		Key:  k,
		Down: down,
		Time: time.Unix(int64(raw.Time.Sec), int64(raw.Time.Usec)*int64(time.Microsecond)),
	}, true
}

func (s *evdevSource) Stop() {
	s.once.Do(func() {
		close(s.stop)
		for _, d := range s.devices {
			d.Close()
		}
		s.wg.Wait()
		close(s.out)
	})
}

func findKeyboards() ([]string, error) {
	inputs, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, in := range inputs {
		if isKeyboard(in.Path) {
			keyboards = append(keyboards, in.Path)
		}
	}
	return keyboards, nil
}

// isKeyboard reports whether the device can emit letter keys. Mice, power
// buttons and lid switches also report EV_KEY, but never KEY_A..KEY_Z.
func isKeyboard(path string) bool {
	d, err := evdev.Open(path)
	if err != nil {
		return false
	}
	defer d.Close()

	var a, z bool
	for _, code := range d.CapableEvents(evdev.EV_KEY) {
		switch code {
		case evdev.KEY_A:
			a = true
		case evdev.KEY_Z:
			z = true
		}
	}
	return a && z
}

func diagnoseEvdev(paths []string) (string, error) {
	if len(paths) == 0 {
		found, err := findKeyboards()
		if err != nil {
			return "", fmt.Errorf("cannot scan input devices: %w", err)
		}
		if len(found) == 0 {
			return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
		}
		paths = found
	}

	var opened string
	for _, path := range paths {
		d, err := evdev.Open(path)
		if err == nil {
			d.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(paths))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(paths), opened), nil
}

var evdevKeys = map[evdev.EvCode]key.Key{
	evdev.KEY_LEFTSHIFT:  key.LeftShift,
	evdev.KEY_RIGHTSHIFT: key.RightShift,
	evdev.KEY_LEFTCTRL:   key.LeftControl,
	evdev.KEY_RIGHTCTRL:  key.RightControl,
	evdev.KEY_LEFTALT:    key.LeftAlt,
	evdev.KEY_RIGHTALT:   key.RightAlt,
	evdev.KEY_LEFTMETA:   key.LeftMeta,
	evdev.KEY_RIGHTMETA:  key.RightMeta,

	evdev.KEY_ESC:        key.Escape,
	evdev.KEY_ENTER:      key.Enter,
	evdev.KEY_TAB:        key.Tab,
	evdev.KEY_BACKSPACE:  key.Backspace,
	evdev.KEY_SPACE:      key.Space,
	evdev.KEY_INSERT:     key.Insert,
	evdev.KEY_DELETE:     key.Delete,
	evdev.KEY_HOME:       key.Home,
	evdev.KEY_END:        key.End,
	evdev.KEY_PAGEUP:     key.PageUp,
	evdev.KEY_PAGEDOWN:   key.PageDown,
	evdev.KEY_UP:         key.Up,
	evdev.KEY_DOWN:       key.Down,
	evdev.KEY_LEFT:       key.Left,
	evdev.KEY_RIGHT:      key.Right,
	evdev.KEY_SYSRQ:      key.PrintScreen,
	evdev.KEY_PAUSE:      key.Pause,
	evdev.KEY_SCROLLLOCK: key.ScrollLock,
	evdev.KEY_NUMLOCK:    key.NumLock,
	evdev.KEY_CAPSLOCK:   key.CapsLock,

	evdev.KEY_F1:  key.F1,
	evdev.KEY_F2:  key.F2,
	evdev.KEY_F3:  key.F3,
	evdev.KEY_F4:  key.F4,
	evdev.KEY_F5:  key.F5,
	evdev.KEY_F6:  key.F6,
	evdev.KEY_F7:  key.F7,
	evdev.KEY_F8:  key.F8,
	evdev.KEY_F9:  key.F9,
	evdev.KEY_F10: key.F10,
	evdev.KEY_F11: key.F11,
	evdev.KEY_F12: key.F12,

	evdev.KEY_0: key.Num0,
	evdev.KEY_1: key.Num1,
	evdev.KEY_2: key.Num2,
	evdev.KEY_3: key.Num3,
	evdev.KEY_4: key.Num4,
	evdev.KEY_5: key.Num5,
	evdev.KEY_6: key.Num6,
	evdev.KEY_7: key.Num7,
	evdev.KEY_8: key.Num8,
	evdev.KEY_9: key.Num9,

	evdev.KEY_A: key.A,
	evdev.KEY_B: key.B,
	evdev.KEY_C: key.C,
	evdev.KEY_D: key.D,
	evdev.KEY_E: key.E,
	evdev.KEY_F: key.F,
	evdev.KEY_G: key.G,
	evdev.KEY_H: key.H,
	evdev.KEY_I: key.I,
	evdev.KEY_J: key.J,
	evdev.KEY_K: key.K,
	evdev.KEY_L: key.L,
	evdev.KEY_M: key.M,
	evdev.KEY_N: key.N,
	evdev.KEY_O: key.O,
	evdev.KEY_P: key.P,
	evdev.KEY_Q: key.Q,
	evdev.KEY_R: key.R,
	evdev.KEY_S: key.S,
	evdev.KEY_T: key.T,
	evdev.KEY_U: key.U,
	evdev.KEY_V: key.V,
	evdev.KEY_W: key.W,
	evdev.KEY_X: key.X,
	evdev.KEY_Y: key.Y,
	evdev.KEY_Z: key.Z,

	evdev.KEY_MINUS:      key.Minus,
	evdev.KEY_EQUAL:      key.Equal,
	evdev.KEY_LEFTBRACE:  key.LeftBracket,
	evdev.KEY_RIGHTBRACE: key.RightBracket,
	evdev.KEY_SEMICOLON:  key.Semicolon,
	evdev.KEY_APOSTROPHE: key.Apostrophe,
	evdev.KEY_GRAVE:      key.Grave,
	evdev.KEY_BACKSLASH:  key.Backslash,
	evdev.KEY_COMMA:      key.Comma,
	evdev.KEY_DOT:        key.Period,
	evdev.KEY_SLASH:      key.Slash,
}
