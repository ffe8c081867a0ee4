//go:build !windows

package doctor

import (
	"os"
	"os/exec"

	"keychord/shutdown"
)

// resetTerminal undoes raw mode left behind by the hook or an injected key.
func resetTerminal() {
	exec.Command("stty", "sane").Run()
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		resetTerminal()
		println("\nInterrupted")
		os.Exit(1)
	}()
}
