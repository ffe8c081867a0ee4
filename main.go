package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"keychord/beep"
	"keychord/config"
	"keychord/doctor"
	"keychord/hook"
	"keychord/log"
	"keychord/login"
	"keychord/shutdown"
)

var version = "dev"

func run() {
	configFlag := flag.String("config", "", "config file path (default: $KEYCHORD_CONFIG or the OS config directory)")
	backendFlag := flag.String("backend", "", "hook backend: auto, evdev, gohook, registered (overrides config)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run hook diagnostics and exit")
	printConfigFlag := flag.Bool("print-config", false, "Print the effective configuration and exit")
	beepFlag := flag.Bool("beep", false, "Play audio cues for sequence steps and matches")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	verboseFlag := flag.Bool("v", false, "Also print sequence steps and resets in plain mode")
	loginFlag := flag.String("login", "", "Start at login: enable, disable or status")
	tuiFlag := flag.Bool("tui", term.IsTerminal(int(os.Stdout.Fd())), "Run with terminal UI")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("keychord %s\n", version)
		os.Exit(0)
	}

	if *loginFlag != "" {
		if err := login.Run(*loginFlag, *configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	cfgPath, err := config.Path(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	if *backendFlag != "" {
		cfg.Hook.Backend = *backendFlag
	}
	if *beepFlag {
		cfg.Feedback.Beep = true
	}

	if *printConfigFlag {
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg, cfg.Hook.Backend))
	}

	compiled, err := cfg.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.Info("config: " + cfgPath)

	if *testFlag {
		code := runTestMode(cfg, compiled, *verboseFlag)
		log.Close()
		os.Exit(code)
	}

	backend, err := hook.Resolve(cfg.Hook.Backend)
	if err != nil {
		log.Errorf("hook backend: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	src, err := hook.New(backend, hook.Options{Devices: cfg.Hook.Devices, Chords: cfg.Chords()})
	if err != nil {
		log.Errorf("hook backend %s: %v", backend, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, c := range compiled {
		if c.Handled {
			log.Warnf("binding %q sets handled; the %s backend cannot consume events", c.Name, backend)
			break
		}
	}

	if cfg.Feedback.Beep {
		beep.Init()
	} else {
		beep.Disable()
	}

	var sink MatchSink = &lineSink{w: os.Stdout, verbose: *verboseFlag}
	if *tuiFlag {
		sink = tuiSink{}
		src = newTapSource(src, sink.Held)
	}

	sess := newSession(sink, cfg.Feedback.Beep)
	d, err := sess.dispatcher(cfg, compiled)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	log.SessionStart(backend, len(compiled))

	tuiDone := make(chan struct{})
	if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(backend, compiled)
		tuiMu.Unlock()

		go func() {
			defer close(tuiDone)
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			stop()
		}()
	} else {
		close(tuiDone)
	}

	err = d.Run(ctx, src)
	log.SessionEnd()

	if *tuiFlag {
		tuiProgram.Quit()
		<-tuiDone
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("dispatch: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Close()
		os.Exit(1)
	}
}
