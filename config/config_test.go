package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keychord/hotkey"
	"keychord/key"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hook.Backend != "auto" {
		t.Errorf("backend = %q, want auto", cfg.Hook.Backend)
	}
	if len(cfg.Bindings) != len(Default().Bindings) {
		t.Errorf("got %d bindings, want defaults", len(cfg.Bindings))
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("Load created the config file")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[hook]
backend = "fake"

[dispatch]
stop_on_handled = true

[[binding]]
name = "screenshot"
keys = "print"
handled = true

[[binding]]
name = "menu"
sequence = ["print", "shift + a | shift + b"]
timeout = "150ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hook.Backend != "fake" || !cfg.Dispatch.StopOnHandled {
		t.Errorf("hook/dispatch = %+v / %+v", cfg.Hook, cfg.Dispatch)
	}
	if len(cfg.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(cfg.Bindings))
	}
	if !cfg.Bindings[0].Handled {
		t.Error("handled not decoded")
	}
	if got := cfg.Bindings[1].Timeout.Duration; got != 150*time.Millisecond {
		t.Errorf("timeout = %v, want 150ms", got)
	}
}

func TestLoadKeepsDefaultBindingsWhenNoneGiven(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[feedback]\nbeep = true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Feedback.Beep {
		t.Error("beep not decoded")
	}
	if len(cfg.Bindings) != len(Default().Bindings) {
		t.Errorf("got %d bindings, want defaults", len(cfg.Bindings))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[hook]\nbakend = \"evdev\"\n", "unknown config keys"},
		{"bad duration", "[[binding]]\nname = \"x\"\nsequence = [\"a\"]\ntimeout = \"soon\"\n", "decode"},
		{"unknown key name", "[[binding]]\nname = \"x\"\nkeys = \"ctrl + banana\"\n", `binding "x"`},
		{"both forms", "[[binding]]\nname = \"x\"\nkeys = \"a\"\nsequence = [\"b\"]\n", "exactly one"},
		{"duplicate", "[[binding]]\nname = \"x\"\nkeys = \"a\"\n[[binding]]\nname = \"x\"\nkeys = \"b\"\n", "duplicate"},
		{"negative timeout", "[[binding]]\nname = \"x\"\nsequence = [\"a\", \"b\"]\ntimeout = \"-1s\"\n", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestUnknownKeyIsWrapped(t *testing.T) {
	b := Binding{Name: "x", Keys: "ctrl + banana"}
	if _, err := b.Compile(); !errors.Is(err, key.ErrUnknownKey) {
		t.Errorf("error = %v, want ErrUnknownKey", err)
	}
}

func TestPathResolution(t *testing.T) {
	t.Setenv("KEYCHORD_CONFIG", "/env/config.toml")
	if p, _ := Path("/flag/config.toml"); p != "/flag/config.toml" {
		t.Errorf("flag path = %q", p)
	}
	if p, _ := Path(""); p != "/env/config.toml" {
		t.Errorf("env path = %q", p)
	}

	t.Setenv("KEYCHORD_CONFIG", "")
	p, err := Path("")
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if filepath.Base(p) != "config.toml" || filepath.Base(filepath.Dir(p)) != "keychord" {
		t.Errorf("default path = %q", p)
	}
}

type feeder struct {
	m   hotkey.Matcher
	now time.Time
	n   int
}

func (f *feeder) press(keys ...key.Key) {
	feed := func(k key.Key, down bool) {
		f.now = f.now.Add(time.Millisecond)
		if f.m.Feed(hotkey.Event{Key: k, Down: down, Time: f.now}) {
			f.n++
		}
	}
	for _, k := range keys {
		feed(k, true)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		feed(keys[i], false)
	}
}

func TestCompileSequenceWithAlternation(t *testing.T) {
	b := Binding{
		Name:     "menu",
		Sequence: []string{"print", "shift + a | shift + b"},
		Timeout:  Duration{200 * time.Millisecond},
	}
	m, err := b.Compile()
	if err != nil {
		t.Fatal(err)
	}
	f := &feeder{m: m, now: time.Unix(0, 0)}

	f.press(key.PrintScreen)
	f.press(key.LeftShift, key.B)
	f.press(key.PrintScreen)
	f.now = f.now.Add(time.Second)
	f.press(key.LeftShift, key.A)
	f.press(key.PrintScreen)
	f.press(key.RightShift, key.A)

	if f.n != 2 {
		t.Errorf("matches = %d, want 2", f.n)
	}
}

func TestCompileNestedSequence(t *testing.T) {
	m, err := Binding{Name: "goto", Sequence: []string{"space", "g, g | shift + g"}}.Compile()
	if err != nil {
		t.Fatal(err)
	}
	f := &feeder{m: m, now: time.Unix(0, 0)}
	f.press(key.Space)
	f.press(key.G)
	f.press(key.G)
	f.press(key.Space)
	f.press(key.LeftShift, key.G)
	if f.n != 2 {
		t.Errorf("matches = %d, want 2", f.n)
	}
}

func TestCompileExact(t *testing.T) {
	m, err := Binding{Name: "a", Keys: "ctrl + a", Exact: true}.Compile()
	if err != nil {
		t.Fatal(err)
	}
	f := &feeder{m: m, now: time.Unix(0, 0)}
	f.press(key.LeftControl, key.LeftShift, key.A)
	f.press(key.LeftControl, key.A)
	if f.n != 1 {
		t.Errorf("matches = %d, want 1", f.n)
	}
}

func TestChords(t *testing.T) {
	cfg := &Config{Bindings: []Binding{
		{Name: "a", Keys: "ctrl + a"},
		{Name: "b", Sequence: []string{"print", "shift + a | shift + b"}},
	}}
	got := cfg.Chords()
	if len(got) != 4 {
		t.Fatalf("got %d chords, want 4: %v", len(got), got)
	}
	if key.FormatCombo(got[3]) != "Shift + B" {
		t.Errorf("last chord = %s", key.FormatCombo(got[3]))
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, buf.String())
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("reloading encoded config: %v\n%s", err, buf.String())
	}
	if got := cfg.Bindings[1].Timeout.Duration; got != 200*time.Millisecond {
		t.Errorf("timeout = %v after round trip", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		b    Binding
		want string
	}{
		{Binding{Keys: "back + rshift"}, "back + rshift"},
		{Binding{Sequence: []string{"print", "shift + a"}}, "print  then  shift + a"},
		{
			Binding{Sequence: []string{"print", "shift + a | shift + b"}, Timeout: Duration{200 * time.Millisecond}},
			"print  then  shift + a | shift + b  (within 200ms)",
		},
	}
	for _, tt := range tests {
		if got := tt.b.Describe(); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.b, got, tt.want)
		}
	}
}
