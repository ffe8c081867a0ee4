//go:build windows

package hook

// Low-level keyboard hooks need no grant on Windows.
func inputPermitted() error { return nil }
