package hook

import (
	"golang.design/x/hotkey"

	"keychord/key"
)

var registeredMods = map[key.Key]hotkey.Modifier{
	key.Control: hotkey.ModCtrl,
	key.Shift:   hotkey.ModShift,
	key.Alt:     hotkey.ModAlt,
	key.Meta:    hotkey.ModWin,
}
