//go:build windows

package syslimits

// windowsMaxCommandLength is the practical command line ceiling on Windows 7
// and later: 32768 minus padding for quoting. There is no sysconf here and
// nothing for a sandbox to deny.
const windowsMaxCommandLength = 32000

func platformMaxCommandLength() int {
	return windowsMaxCommandLength
}

// ReportedArgMax returns the fixed Windows command line ceiling.
func ReportedArgMax() (int64, error) {
	return windowsMaxCommandLength, nil
}
