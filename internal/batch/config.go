// Package batch splits a list of items into subprocess invocations that
// each stay under the platform's argument-size limit, then runs them in
// order.
package batch

import (
	"io"

	"github.com/batchtools/runbatch/internal/logging"
	"github.com/batchtools/runbatch/internal/report"
	"github.com/batchtools/runbatch/internal/syslimits"
)

// resolveMaxLength is the platform resolver. Swapped out in tests to
// simulate restricted or generous environments.
var resolveMaxLength = syslimits.MaxCommandLength

// Config controls one batched run.
type Config struct {
	// MaxCommandLength is the byte budget for one invocation. When
	// positive it is used verbatim and the platform is never consulted.
	// Zero means resolve the budget from the platform, at plan time,
	// fresh on every run.
	MaxCommandLength int

	// DryRun prints the invocations instead of spawning them.
	DryRun bool

	// StopOnError aborts the run after the first failing invocation.
	// Otherwise remaining chunks still run and the summary carries the
	// failure count.
	StopOnError bool

	// Stdout and Stderr receive subprocess output. Nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer

	Logger *logging.Logger
}

// EffectiveMaxLength returns the byte budget for the current run and where
// it came from. The platform query happens here and nowhere earlier, so a
// sandbox denying it degrades this one run instead of breaking startup.
func (c Config) EffectiveMaxLength() (int, report.LimitSource) {
	if c.MaxCommandLength > 0 {
		return c.MaxCommandLength, report.LimitOverride
	}
	return resolveMaxLength(), report.LimitPlatform
}
