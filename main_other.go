//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// The registered backend needs the OS event loop on the main thread.
func main() {
	mainthread.Init(run)
}
