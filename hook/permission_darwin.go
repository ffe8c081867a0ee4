//go:build darwin

package hook

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
*/
import "C"

import "fmt"

// inputPermitted reports whether the process may install an event tap.
// Without Accessibility trust the tap is created but never delivers.
func inputPermitted() error {
	if C.AXIsProcessTrusted() == 0 {
		return fmt.Errorf("%w: allow this binary (or its terminal) under System Settings > Privacy & Security > Accessibility", ErrPermission)
	}
	return nil
}
