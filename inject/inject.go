// Package inject sends synthetic key presses through the OS input layer.
package inject

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"

	"keychord/key"
)

var ErrUnsupportedKey = errors.New("key cannot be injected")

var (
	kb      keybd_event.KeyBonding
	kbOnce  sync.Once
	kbErr   error
	kbReady time.Time
)

// Init creates the virtual keyboard. On Linux the uinput device is not
// usable until udev has seen it, so the first Press waits out the settle
// time.
func Init() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if runtime.GOOS == "linux" {
			kbReady = time.Now().Add(2 * time.Second)
		}
	})
	return kbErr
}

// Press holds the chord and releases it. Ctrl, Shift and Alt are the only
// modifiers the injector exposes on every platform; sides are not
// distinguished.
func Press(keys []key.Key) error {
	var (
		vks              []int
		ctrl, shift, alt bool
	)
	for _, k := range keys {
		switch k.Generic() {
		case key.Control:
			ctrl = true
			continue
		case key.Shift:
			shift = true
			continue
		case key.Alt:
			alt = true
			continue
		}
		vk, ok := virtualKeys[k]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedKey, k)
		}
		vks = append(vks, vk)
	}

	if err := Init(); err != nil {
		return err
	}
	if wait := time.Until(kbReady); wait > 0 {
		time.Sleep(wait)
	}

	kb.Clear()
	kb.SetKeys(vks...)
	kb.HasCTRL(ctrl)
	kb.HasSHIFT(shift)
	kb.HasALT(alt)
	return kb.Launching()
}

var virtualKeys = map[key.Key]int{
	key.Space: keybd_event.VK_SPACE,

	key.F1:  keybd_event.VK_F1,
	key.F2:  keybd_event.VK_F2,
	key.F3:  keybd_event.VK_F3,
	key.F4:  keybd_event.VK_F4,
	key.F5:  keybd_event.VK_F5,
	key.F6:  keybd_event.VK_F6,
	key.F7:  keybd_event.VK_F7,
	key.F8:  keybd_event.VK_F8,
	key.F9:  keybd_event.VK_F9,
	key.F10: keybd_event.VK_F10,
	key.F11: keybd_event.VK_F11,
	key.F12: keybd_event.VK_F12,

	key.Num0: keybd_event.VK_0,
	key.Num1: keybd_event.VK_1,
	key.Num2: keybd_event.VK_2,
	key.Num3: keybd_event.VK_3,
	key.Num4: keybd_event.VK_4,
	key.Num5: keybd_event.VK_5,
	key.Num6: keybd_event.VK_6,
	key.Num7: keybd_event.VK_7,
	key.Num8: keybd_event.VK_8,
	key.Num9: keybd_event.VK_9,

	key.A: keybd_event.VK_A,
	key.B: keybd_event.VK_B,
	key.C: keybd_event.VK_C,
	key.D: keybd_event.VK_D,
	key.E: keybd_event.VK_E,
	key.F: keybd_event.VK_F,
	key.G: keybd_event.VK_G,
	key.H: keybd_event.VK_H,
	key.I: keybd_event.VK_I,
	key.J: keybd_event.VK_J,
	key.K: keybd_event.VK_K,
	key.L: keybd_event.VK_L,
	key.M: keybd_event.VK_M,
	key.N: keybd_event.VK_N,
	key.O: keybd_event.VK_O,
	key.P: keybd_event.VK_P,
	key.Q: keybd_event.VK_Q,
	key.R: keybd_event.VK_R,
	key.S: keybd_event.VK_S,
	key.T: keybd_event.VK_T,
	key.U: keybd_event.VK_U,
	key.V: keybd_event.VK_V,
	key.W: keybd_event.VK_W,
	key.X: keybd_event.VK_X,
	key.Y: keybd_event.VK_Y,
	key.Z: keybd_event.VK_Z,
}
