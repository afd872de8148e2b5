//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package resources

import "time"

// processCPUTime is unavailable on this platform; CPU readings stay 0.
func processCPUTime() (time.Duration, bool) {
	return 0, false
}
