package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"keychord/beep"
	"keychord/config"
	"keychord/hook"
	"keychord/key"
	"keychord/log"
)

// runTestMode drives the fake backend from stdin:
//
//	DOWN <key>       press a key
//	UP <key>         release a key
//	PRESS <combo>    press keys in order, release in reverse
//	ADVANCE <dur>    move the virtual clock, e.g. ADVANCE 250ms
//	SLEEP <ms>       real sleep
//	QUIT             stop and exit
//
// Matches print as "MATCH <name>" lines.
func runTestMode(cfg *config.Config, compiled []config.Compiled, verbose bool) int {
	beep.Disable()

	fake := hook.NewFake()
	sess := newSession(&lineSink{w: os.Stdout, verbose: verbose}, false)
	d, err := sess.dispatcher(cfg, compiled)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.SessionStart("fake", len(compiled))
	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background(), fake) }()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := testCommand(fake, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	fake.Stop()

	err = <-done
	log.SessionEnd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var errQuit = errors.New("quit")

func testCommand(fake *hook.Fake, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToUpper(cmd) {
	case "":
		return nil
	case "DOWN", "UP":
		k, err := key.Parse(arg)
		if err != nil {
			return err
		}
		if strings.EqualFold(cmd, "DOWN") {
			fake.SimDown(k)
		} else {
			fake.SimUp(k)
		}
	case "PRESS":
		keys, err := key.ParseCombo(arg)
		if err != nil {
			return err
		}
		fake.SimPress(keys...)
	case "ADVANCE":
		dur, err := time.ParseDuration(arg)
		if err != nil {
			return fmt.Errorf("ADVANCE: %w", err)
		}
		fake.Advance(dur)
	case "SLEEP":
		ms, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("SLEEP: %w", err)
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
	case "QUIT":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
