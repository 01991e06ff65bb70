// Package syslimits resolves operating system limits that bound a single
// subprocess invocation, most importantly the total byte size of its
// argument list.
package syslimits

// PosixArgMaxFloor is the argument space every POSIX system must provide
// (_POSIX_ARG_MAX). It is the value used whenever the platform refuses or
// fails to report its real limit.
const PosixArgMaxFloor = 4096

// practicalCeiling caps the derived budget. Multi-megabyte command lines
// win nothing and make failures unreadable.
const practicalCeiling = 1 << 20

// MaxCommandLength returns the byte budget for one batched command
// invocation. It is always positive and never below PosixArgMaxFloor.
//
// The platform is consulted on every call, never at package load time.
// Restricted sandboxes can deny the underlying query, and that denial must
// cost a smaller batch size, not a startup failure.
func MaxCommandLength() int {
	return platformMaxCommandLength()
}

// deriveLimit turns the raw platform-reported argument space into the
// budget actually used for batching. Half the reported space is left for
// the environment and exec bookkeeping, and the result is clamped to
// [PosixArgMaxFloor, practicalCeiling].
func deriveLimit(query func() (int64, error)) int {
	reported, err := query()
	if err != nil || reported <= 0 {
		// The platform declined to answer. Fall back to the floor
		// every POSIX system guarantees.
		return PosixArgMaxFloor
	}

	scaled := reported / 2
	if scaled > practicalCeiling {
		scaled = practicalCeiling
	}
	if scaled < PosixArgMaxFloor {
		scaled = PosixArgMaxFloor
	}
	return int(scaled)
}
