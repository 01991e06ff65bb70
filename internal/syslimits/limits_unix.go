//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris

package syslimits

import "github.com/tklauser/go-sysconf"

func platformMaxCommandLength() int {
	return deriveLimit(reportedArgMax)
}

// reportedArgMax asks the kernel for ARG_MAX. Sandboxes may deny the call,
// so callers must treat an error as "unknown", never as fatal.
func reportedArgMax() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_ARG_MAX)
}

// ReportedArgMax exposes the raw kernel value for diagnostics. Unlike
// MaxCommandLength it lets the error through, so a diagnostic command can
// show why the fallback floor is in effect.
func ReportedArgMax() (int64, error) {
	return reportedArgMax()
}
