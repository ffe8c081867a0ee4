package doctor

import (
	"context"
	"fmt"
	"time"

	"keychord/config"
	"keychord/hook"
	"keychord/hotkey"
	"keychord/inject"
	"keychord/key"
)

// probeChord is injected to prove that synthetic input reaches the hook.
var probeChord = []key.Key{key.Shift, key.F12}

const probeName = "doctor-probe"

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg *config.Config, backend string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("keychord doctor - interactive hook diagnostics")
	fmt.Println("==============================================")

	compiled, err := cfg.Compile()
	if err != nil {
		fmt.Printf("  FAIL: config: %v\n", err)
		return 1
	}

	opts := hook.Options{
		Devices: cfg.Hook.Devices,
		Chords:  append(cfg.Chords(), probeChord),
	}

	allPass := true
	matches := make(chan string, 16)

	d, err := subscribeAll(compiled, matches)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return 1
	}

	stop, ok := checkHook(d, backend, opts)
	if !ok {
		allPass = false
	} else {
		defer stop()
		if !checkInjection(matches) {
			allPass = false
		}
		if !checkBinding(matches, compiled) {
			allPass = false
		}
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

// subscribeAll builds a dispatcher reporting the probe chord and every
// binding by name on matches.
func subscribeAll(compiled []config.Compiled, matches chan<- string) (*hotkey.Dispatcher, error) {
	d := hotkey.NewDispatcher()
	onMatch := func(m hotkey.Match) { deliver(matches, m.Name) }

	probe, err := hotkey.NewCombination(probeChord)
	if err != nil {
		return nil, fmt.Errorf("probe chord: %w", err)
	}
	if _, err := d.Subscribe(probeName, probe, onMatch); err != nil {
		return nil, err
	}
	for _, c := range compiled {
		if _, err := d.Subscribe(c.Name, c.Matcher, onMatch); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func deliver(ch chan<- string, name string) {
	select {
	case ch <- name:
	default:
	}
}

func checkHook(d *hotkey.Dispatcher, backend string, opts hook.Options) (stop func(), ok bool) {
	fmt.Println()
	fmt.Println("[1/3] Keyboard hook")

	name, err := hook.Resolve(backend)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return nil, false
	}
	info, err := hook.Diagnose(name, opts)
	if err != nil {
		fmt.Printf("  FAIL: %s: %v\n", name, err)
		return nil, false
	}
	fmt.Printf("  %s: %s\n", name, info)

	src, err := hook.New(name, opts)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return nil, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, src) }()

	// Run reports an install failure straight away; anything still running
	// after a moment has its hook in place.
	select {
	case err := <-done:
		cancel()
		if err == nil {
			err = fmt.Errorf("event stream ended")
		}
		fmt.Printf("  FAIL: %v\n", err)
		return nil, false
	case <-time.After(300 * time.Millisecond):
	}
	fmt.Println("  PASS: hook installed")

	return func() {
		cancel()
		<-done
	}, true
}

func checkInjection(matches <-chan string) bool {
	fmt.Println()
	fmt.Printf("[2/3] Synthetic %s\n", key.FormatCombo(probeChord))

	if err := inject.Press(probeChord); err != nil {
		fmt.Printf("  FAIL: could not inject keys: %v\n", err)
		return false
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case name := <-matches:
			if name == probeName {
				fmt.Println("  PASS: injected chord matched")
				return true
			}
		case <-timeout:
			fmt.Println("  FAIL: injected chord never reached the hook")
			return false
		}
	}
}

func checkBinding(matches <-chan string, compiled []config.Compiled) bool {
	fmt.Println()
	fmt.Println("[3/3] Configured bindings")
	if len(compiled) == 0 {
		fmt.Println("  SKIP: no bindings configured")
		return true
	}
	for _, c := range compiled {
		fmt.Printf("  %-16s %s\n", c.Name, c.Describe())
	}
	fmt.Println("Press any of the bindings above...")

	timeout := time.After(15 * time.Second)
	for {
		select {
		case name := <-matches:
			if name == probeName {
				continue
			}
			fmt.Printf("  PASS: %s matched\n", name)
			resetTerminal()
			return true
		case <-timeout:
			fmt.Println("  FAIL: timeout waiting for a binding")
			return false
		}
	}
}
