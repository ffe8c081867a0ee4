// Package hook provides the platform keyboard backends that feed a
// hotkey.Dispatcher.
package hook

import (
	"errors"
	"fmt"
	"sort"

	"keychord/hotkey"
	"keychord/key"
)

// Auto selects the preferred backend for the running platform.
const Auto = "auto"

var (
	ErrUnknownBackend   = errors.New("unknown hook backend")
	ErrNoBackend        = errors.New("no hook backend available on this platform")
	ErrUnsupportedChord = errors.New("chord cannot be registered")
	ErrPermission       = errors.New("keyboard monitoring permission not granted")
)

// Options carries what a backend may need from the configuration.
type Options struct {
	// Devices lists explicit evdev device paths. Empty means every keyboard.
	Devices []string
	// Chords lists every chord the bindings use. Only the registered
	// backend needs them.
	Chords [][]key.Key
}

type backend struct {
	open     func(Options) (hotkey.Source, error)
	diagnose func(Options) (string, error)
}

var backends = map[string]backend{
	"fake": {
		open:     func(Options) (hotkey.Source, error) { return NewFake(), nil },
		diagnose: func(Options) (string, error) { return "scripted events only, no keyboard access", nil },
	},
}

func register(name string, b backend) {
	backends[name] = b
}

func resolve(name string) (string, backend, error) {
	if name == "" || name == Auto {
		if defaultBackend == "" {
			return "", backend{}, ErrNoBackend
		}
		name = defaultBackend
	}
	b, ok := backends[name]
	if !ok {
		return "", backend{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return name, b, nil
}

// New returns the named backend. "auto" or "" picks the platform default.
func New(name string, opts Options) (hotkey.Source, error) {
	_, b, err := resolve(name)
	if err != nil {
		return nil, err
	}
	return b.open(opts)
}

// Resolve maps "auto" to the concrete backend name.
func Resolve(name string) (string, error) {
	n, _, err := resolve(name)
	return n, err
}

// Backends lists the backends compiled into this binary.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Diagnose checks that the backend could be installed without starting it
// and describes what it found.
func Diagnose(name string, opts Options) (string, error) {
	_, b, err := resolve(name)
	if err != nil {
		return "", err
	}
	return b.diagnose(opts)
}
