package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	matchFile  *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
	matchCount int
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: KEYCHORD_LOG_PATH environment variable
	if envPath := os.Getenv("KEYCHORD_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()
	matchCount = 0

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	matchPath := filepath.Join(dir, "matches_log.txt")
	matchFile, err = os.OpenFile(matchPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05.000",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if matchFile != nil {
		matchFile.Close()
		matchFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(backend string, bindings int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("backend", backend).
		Int("bindings", bindings).
		Msg("session_start")
}

func SessionEnd() {
	if !logReady {
		return
	}
	logMu.Lock()
	n := matchCount
	logMu.Unlock()
	diagLog.Info().
		Int("matches", n).
		Msg("session_end")
}

// Step records a sequence advancing to step (1-based) of total.
func Step(name string, step, total int) {
	if !logReady {
		return
	}
	diagLog.Debug().
		Str("binding", name).
		Int("step", step).
		Int("of", total).
		Msg("sequence_step")
}

// Reset records a sequence dropping its progress.
func Reset(name, reason string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("binding", name).
		Str("reason", reason).
		Msg("sequence_reset")
}

// Match writes one line to matches_log.txt and a diagnostics entry.
func Match(name, keys string, at time.Time) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	matchCount++
	diagLog.Info().
		Str("binding", name).
		Str("keys", keys).
		Msg("match")
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\n", at.Format("2006-01-02 15:04:05.000"), pid, name, keys)
	matchFile.WriteString(line)
}
