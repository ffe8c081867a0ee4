// Package login installs keychord as a per-user agent started at login.
package login

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrUnsupported = errors.New("start at login is not supported on this platform")

// Agent describes the command the login item runs.
type Agent struct {
	Exe  string
	Args []string
	// Env is passed through to the agent; login sessions do not inherit
	// the shell environment.
	Env map[string]string
}

// passthrough lists the variables copied into a new agent.
var passthrough = []string{"KEYCHORD_CONFIG", "KEYCHORD_LOG_PATH"}

// Current builds an Agent for the running executable. The agent runs
// without the terminal UI.
func Current(configPath string) (Agent, error) {
	exe, err := os.Executable()
	if err != nil {
		return Agent{}, fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	a := Agent{Exe: exe, Args: []string{"-tui=false"}, Env: map[string]string{}}
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return Agent{}, err
		}
		a.Args = append(a.Args, "-config", abs)
	}
	for _, k := range passthrough {
		if v := os.Getenv(k); v != "" {
			a.Env[k] = v
		}
	}
	return a, nil
}

// Run handles the -login flag: enable, disable or status.
func Run(action, configPath string) error {
	switch action {
	case "enable":
		a, err := Current(configPath)
		if err != nil {
			return err
		}
		if err := Enable(a); err != nil {
			return err
		}
		fmt.Println("keychord will start at login")
	case "disable":
		if err := Disable(); err != nil {
			return err
		}
		fmt.Println("keychord will no longer start at login")
	case "status":
		if Enabled() {
			fmt.Println("enabled")
		} else {
			fmt.Println("disabled")
		}
	default:
		return fmt.Errorf("unknown -login action %q (want enable, disable or status)", action)
	}
	return nil
}
