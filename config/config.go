// Package config loads keychord's TOML configuration and compiles its
// bindings into matchers.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Hook     HookConfig     `toml:"hook"`
	Dispatch DispatchConfig `toml:"dispatch"`
	Feedback FeedbackConfig `toml:"feedback"`
	Bindings []Binding      `toml:"binding"`
}

type HookConfig struct {
	Backend string   `toml:"backend"`
	Devices []string `toml:"devices"`
}

type DispatchConfig struct {
	StopOnHandled bool `toml:"stop_on_handled"`
}

type FeedbackConfig struct {
	Beep bool `toml:"beep"`
}

// Binding names one matcher. Exactly one of Keys and Sequence is set.
type Binding struct {
	Name     string   `toml:"name"`
	Keys     string   `toml:"keys,omitempty"`
	Sequence []string `toml:"sequence,omitempty"`
	Timeout  Duration `toml:"timeout,omitempty"`
	Exact    bool     `toml:"exact,omitempty"`
	Handled  bool     `toml:"handled,omitempty"`
}

// Duration decodes TOML strings such as "200ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default configuration
func Default() *Config {
	return &Config{
		Hook: HookConfig{Backend: "auto"},
		Bindings: []Binding{
			{Name: "back", Keys: "back + rshift"},
			{
				Name:     "capture-menu",
				Sequence: []string{"print", "shift + a | shift + b"},
				Timeout:  Duration{200 * time.Millisecond},
			},
		},
	}
}

// Path resolves the config file: the flag value, then KEYCHORD_CONFIG,
// then the OS config directory.
func Path(flagVal string) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	if env := os.Getenv("KEYCHORD_CONFIG"); env != "" {
		return env, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "keychord", "config.toml"), nil
}

// Load reads path. A missing file yields the defaults; keychord never
// writes one.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	cfg := Default()
	cfg.Bindings = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("binding") {
		cfg.Bindings = Default().Bindings
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every binding without keeping the compiled matchers.
func (c *Config) Validate() error {
	if c.Hook.Backend == "" {
		return fmt.Errorf("hook.backend is empty")
	}
	_, err := c.Compile()
	return err
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Describe renders the binding for display.
func (b Binding) Describe() string {
	if strings.TrimSpace(b.Keys) != "" {
		return b.Keys
	}
	s := strings.Join(b.Sequence, "  then  ")
	if b.Timeout.Duration > 0 {
		s += fmt.Sprintf("  (within %v)", b.Timeout.Duration)
	}
	return s
}
