//go:build !linux && !darwin && !windows

package hook

const defaultBackend = ""
