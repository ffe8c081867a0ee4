//go:build linux

package login

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// desktopPath is the per-user XDG autostart location.
func desktopPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", "keychord.desktop"), nil
}

// quoteExec quotes one argument of an Exec= line.
func quoteExec(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

func desktopEntry(a Agent) string {
	var cmd []string
	if len(a.Env) > 0 {
		keys := make([]string, 0, len(a.Env))
		for k := range a.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd = append(cmd, "env")
		for _, k := range keys {
			cmd = append(cmd, quoteExec(k+"="+a.Env[k]))
		}
	}
	for _, s := range append([]string{a.Exe}, a.Args...) {
		cmd = append(cmd, quoteExec(s))
	}

	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=keychord
Comment=Global keyboard shortcuts
Exec=%s
Terminal=false
X-GNOME-Autostart-enabled=true
`, strings.Join(cmd, " "))
}

func Enabled() bool {
	path, err := desktopPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func Enable(a Agent) error {
	path, err := desktopPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(a)), 0644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func Disable() error {
	path, err := desktopPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
