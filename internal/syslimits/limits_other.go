//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !solaris

package syslimits

import "errors"

func platformMaxCommandLength() int {
	return PosixArgMaxFloor
}

// ReportedArgMax is unsupported on this platform.
func ReportedArgMax() (int64, error) {
	return 0, errors.New("argument size limit is not reported on this platform")
}
