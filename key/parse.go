package key

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyName  = errors.New("empty key name")
	ErrUnknownKey = errors.New("unknown key")
)

var aliases = map[string]Key{
	"ctrl":        Control,
	"control":     Control,
	"shift":       Shift,
	"alt":         Alt,
	"option":      Alt,
	"opt":         Alt,
	"meta":        Meta,
	"win":         Meta,
	"windows":     Meta,
	"super":       Meta,
	"cmd":         Meta,
	"command":     Meta,
	"lshift":      LeftShift,
	"rshift":      RightShift,
	"lctrl":       LeftControl,
	"rctrl":       RightControl,
	"lalt":        LeftAlt,
	"ralt":        RightAlt,
	"altgr":       RightAlt,
	"lmeta":       LeftMeta,
	"rmeta":       RightMeta,
	"lwin":        LeftMeta,
	"rwin":        RightMeta,
	"esc":         Escape,
	"escape":      Escape,
	"return":      Enter,
	"cr":          Enter,
	"back":        Backspace,
	"bs":          Backspace,
	"ins":         Insert,
	"del":         Delete,
	"pgup":        PageUp,
	"pgdn":        PageDown,
	"prtsc":       PrintScreen,
	"printscreen": PrintScreen,
	"sysrq":       PrintScreen,
	"snapshot":    PrintScreen,
	"minus":       Minus,
	"equal":       Equal,
	"equals":      Equal,
	"comma":       Comma,
	"period":      Period,
	"slash":       Slash,
	"backslash":   Backslash,
	"semicolon":   Semicolon,
	"apostrophe":  Apostrophe,
	"grave":       Grave,
}

var byName map[string]Key

func init() {
	byName = make(map[string]Key, len(aliases)+int(maxKey))
	for k := None + 1; k < maxKey; k++ {
		byName[strings.ToLower(displayNames[k])] = k
	}
	for name, k := range aliases {
		byName[name] = k
	}
}

// Parse returns the key for a name (case-insensitive). Both display names
// ("LeftShift", "Print", "F5", "A") and common aliases ("lshift", "esc",
// "win") are accepted.
func Parse(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, ErrEmptyName
	}
	if k, ok := byName[name]; ok {
		return k, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// ParseCombo parses a "+"-separated chord such as "ctrl + shift + A".
// Keys are returned in the order written; duplicates are kept.
func ParseCombo(s string) ([]Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyName
	}
	parts := strings.Split(s, "+")
	keys := make([]Key, 0, len(parts))
	for _, part := range parts {
		k, err := Parse(part)
		if err != nil {
			return nil, fmt.Errorf("combo %q: %w", s, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Normalize sorts keys and drops duplicates. The input is not modified.
func Normalize(keys []Key) []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, k := range out {
		if i > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}

// FormatCombo renders keys as "Ctrl + Shift + A".
func FormatCombo(keys []Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, " + ")
}
