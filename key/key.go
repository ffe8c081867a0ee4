package key

import "fmt"

// Key identifies a physical or virtual key. Values are comparable and
// ordered; sided modifiers are distinct keys.
type Key uint16

const (
	None Key = iota

	// Generic modifiers. Backends never emit these; a binding that
	// requires one is satisfied by either sided variant.
	Shift
	Control
	Alt
	Meta

	LeftShift
	RightShift
	LeftControl
	RightControl
	LeftAlt
	RightAlt
	LeftMeta
	RightMeta

	Escape
	Enter
	Tab
	Backspace
	Space
	Insert
	Delete
	Home
	End
	PageUp
	PageDown
	Up
	Down
	Left
	Right
	PrintScreen
	Pause
	ScrollLock
	NumLock
	CapsLock

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	Minus
	Equal
	LeftBracket
	RightBracket
	Semicolon
	Apostrophe
	Grave
	Backslash
	Comma
	Period
	Slash

	maxKey
)

var displayNames = [maxKey]string{
	None:         "None",
	Shift:        "Shift",
	Control:      "Ctrl",
	Alt:          "Alt",
	Meta:         "Meta",
	LeftShift:    "LeftShift",
	RightShift:   "RightShift",
	LeftControl:  "LeftCtrl",
	RightControl: "RightCtrl",
	LeftAlt:      "LeftAlt",
	RightAlt:     "RightAlt",
	LeftMeta:     "LeftMeta",
	RightMeta:    "RightMeta",
	Escape:       "Esc",
	Enter:        "Enter",
	Tab:          "Tab",
	Backspace:    "Backspace",
	Space:        "Space",
	Insert:       "Insert",
	Delete:       "Delete",
	Home:         "Home",
	End:          "End",
	PageUp:       "PageUp",
	PageDown:     "PageDown",
	Up:           "Up",
	Down:         "Down",
	Left:         "Left",
	Right:        "Right",
	PrintScreen:  "Print",
	Pause:        "Pause",
	ScrollLock:   "ScrollLock",
	NumLock:      "NumLock",
	CapsLock:     "CapsLock",
	Minus:        "-",
	Equal:        "=",
	LeftBracket:  "[",
	RightBracket: "]",
	Semicolon:    ";",
	Apostrophe:   "'",
	Grave:        "`",
	Backslash:    "\\",
	Comma:        ",",
	Period:       ".",
	Slash:        "/",
}

func init() {
	for k := F1; k <= F12; k++ {
		displayNames[k] = fmt.Sprintf("F%d", int(k-F1)+1)
	}
	for k := Num0; k <= Num9; k++ {
		displayNames[k] = string(rune('0' + int(k-Num0)))
	}
	for k := A; k <= Z; k++ {
		displayNames[k] = string(rune('A' + int(k-A)))
	}
}

// String returns the display name used in logs and the UI.
func (k Key) String() string {
	if k < maxKey && displayNames[k] != "" {
		return displayNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

// Valid reports whether k is a known key other than None.
func (k Key) Valid() bool {
	return k > None && k < maxKey
}

// IsGeneric reports whether k is one of the side-less modifiers.
func (k Key) IsGeneric() bool {
	return k >= Shift && k <= Meta
}

// IsModifier reports whether k is a generic or sided modifier.
func (k Key) IsModifier() bool {
	return k >= Shift && k <= RightMeta
}

// Generic maps a sided modifier to its generic form. Any other key is
// returned unchanged.
func (k Key) Generic() Key {
	switch k {
	case LeftShift, RightShift:
		return Shift
	case LeftControl, RightControl:
		return Control
	case LeftAlt, RightAlt:
		return Alt
	case LeftMeta, RightMeta:
		return Meta
	}
	return k
}

// Satisfies reports whether a physical key k fulfils the configured key
// required. Only a generic modifier in the configuration widens the match.
func (k Key) Satisfies(required Key) bool {
	if k == required {
		return true
	}
	return required.IsGeneric() && k.Generic() == required
}
