//go:build darwin || windows

package hook

import (
	"context"
	"sync"

	gohook "github.com/robotn/gohook"

	"keychord/hotkey"
	"keychord/key"
)

const defaultBackend = "gohook"

func init() {
	register("gohook", backend{
		open:     func(Options) (hotkey.Source, error) { return newGohookSource(), nil },
		diagnose: func(Options) (string, error) { return diagnoseGohook() },
	})
}

// gohookSource wraps the process-wide libuiohook hook. libuiohook reports
// a physical press as KeyHold and a release as KeyUp; KeyDown is the typed
// character and is ignored.
type gohookSource struct {
	out  chan hotkey.Event
	stop chan struct{}
	done chan struct{}
	once sync.Once
	held map[uint16]bool

	started bool
}

func newGohookSource() *gohookSource {
	return &gohookSource{
		out:  make(chan hotkey.Event, 64),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		held: make(map[uint16]bool),
	}
}

// hookPermitted is checked before the hook is installed. libuiohook
// reports nothing when installation fails, so this is the only failure
// Start can surface.
var hookPermitted = inputPermitted

func (s *gohookSource) Start(ctx context.Context) (<-chan hotkey.Event, error) {
	if err := hookPermitted(); err != nil {
		return nil, err
	}
	raw := gohook.Start()
	s.started = true
	go s.forward(ctx, raw)
	return s.out, nil
}

func (s *gohookSource) forward(ctx context.Context, raw chan gohook.Event) {
	defer close(s.done)
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case e, ok := <-raw:
			if !ok {
				return
			}
			ev, ok := s.translate(e)
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
}

func (s *gohookSource) translate(e gohook.Event) (hotkey.Event, bool) {
	var down bool
	switch e.Kind {
	case gohook.KeyHold:
		down = true
	case gohook.KeyUp:
	default:
		return hotkey.Event{}, false
	}
	k, ok := uiohookKeys[e.Keycode]
	if !ok {
		return hotkey.Event{}, false
	}
	if down && s.held[e.Keycode] {
		return hotkey.Event{}, false
	}
	if down {
		s.held[e.Keycode] = true
	} else {
		delete(s.held, e.Keycode)
	}
	return hotkey.Event{Key: k, Down: down, Time: e.When}, true
}

func (s *gohookSource) Stop() {
	s.once.Do(func() {
		close(s.stop)
		if !s.started {
			return
		}
		gohook.End()
		<-s.done
	})
}

func diagnoseGohook() (string, error) {
	if err := hookPermitted(); err != nil {
		return "", err
	}
	return "libuiohook global hook, permission granted (install status is not reported)", nil
}

// uiohookKeys maps libuiohook virtual key codes.
var uiohookKeys = map[uint16]key.Key{
	0x002A: key.LeftShift,
	0x0036: key.RightShift,
	0x001D: key.LeftControl,
	0x0E1D: key.RightControl,
	0x0038: key.LeftAlt,
	0x0E38: key.RightAlt,
	0x0E5B: key.LeftMeta,
	0x0E5C: key.RightMeta,

	0x0001: key.Escape,
	0x001C: key.Enter,
	0x000F: key.Tab,
	0x000E: key.Backspace,
	0x0039: key.Space,
	0x0E52: key.Insert,
	0x0E53: key.Delete,
	0x0E47: key.Home,
	0x0E4F: key.End,
	0x0E49: key.PageUp,
	0x0E51: key.PageDown,
	0xE048: key.Up,
	0xE050: key.Down,
	0xE04B: key.Left,
	0xE04D: key.Right,
	0x0E37: key.PrintScreen,
	0x0E45: key.Pause,
	0x0046: key.ScrollLock,
	0x0045: key.NumLock,
	0x003A: key.CapsLock,

	0x003B: key.F1,
	0x003C: key.F2,
	0x003D: key.F3,
	0x003E: key.F4,
	0x003F: key.F5,
	0x0040: key.F6,
	0x0041: key.F7,
	0x0042: key.F8,
	0x0043: key.F9,
	0x0044: key.F10,
	0x0057: key.F11,
	0x0058: key.F12,

	0x000B: key.Num0,
	0x0002: key.Num1,
	0x0003: key.Num2,
	0x0004: key.Num3,
	0x0005: key.Num4,
	0x0006: key.Num5,
	0x0007: key.Num6,
	0x0008: key.Num7,
	0x0009: key.Num8,
	0x000A: key.Num9,

	0x001E: key.A,
	0x0030: key.B,
	0x002E: key.C,
	0x0020: key.D,
	0x0012: key.E,
	0x0021: key.F,
	0x0022: key.G,
	0x0023: key.H,
	0x0017: key.I,
	0x0024: key.J,
	0x0025: key.K,
	0x0026: key.L,
	0x0032: key.M,
	0x0031: key.N,
	0x0018: key.O,
	0x0019: key.P,
	0x0010: key.Q,
	0x0013: key.R,
	0x001F: key.S,
	0x0014: key.T,
	0x0016: key.U,
	0x002F: key.V,
	0x0011: key.W,
	0x002D: key.X,
	0x0015: key.Y,
	0x002C: key.Z,

	0x000C: key.Minus,
	0x000D: key.Equal,
	0x001A: key.LeftBracket,
	0x001B: key.RightBracket,
	0x0027: key.Semicolon,
	0x0028: key.Apostrophe,
	0x0029: key.Grave,
	0x002B: key.Backslash,
	0x0033: key.Comma,
	0x0034: key.Period,
	0x0035: key.Slash,
}
