package report

import (
	"time"
)

// LimitSource says where the byte budget of a run came from.
type LimitSource string

const (
	// LimitPlatform means the budget was resolved from the operating
	// system at run time (possibly the fallback floor, if the platform
	// query was denied).
	LimitPlatform LimitSource = "platform"
	// LimitOverride means the caller supplied an explicit budget and the
	// platform was never consulted.
	LimitOverride LimitSource = "override"
)

// ChunkResult is the immutable record of one subprocess invocation.
// Set once when the chunk finishes, never updated.
type ChunkResult struct {
	Index    int           `json:"index" yaml:"index"`
	Items    int           `json:"items" yaml:"items"`
	Bytes    int           `json:"bytes" yaml:"bytes"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the invocation ended badly, either with a
// non-zero exit code or without spawning at all.
func (r ChunkResult) Failed() bool {
	return r.ExitCode != 0 || r.Error != ""
}

// Summary aggregates the chunk results of one batched run.
type Summary struct {
	Command      string        `json:"command" yaml:"command"`
	Limit        int           `json:"limit_bytes" yaml:"limit_bytes"`
	LimitSource  LimitSource   `json:"limit_source" yaml:"limit_source"`
	Chunks       []ChunkResult `json:"chunks" yaml:"chunks"`
	ItemsTotal   int           `json:"items_total" yaml:"items_total"`
	ChunksFailed int           `json:"chunks_failed" yaml:"chunks_failed"`
	Duration     time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// NewSummary creates an empty summary for a run with the given budget.
func NewSummary(command string, limit int, source LimitSource) *Summary {
	return &Summary{
		Command:     command,
		Limit:       limit,
		LimitSource: source,
		Chunks:      []ChunkResult{},
	}
}

// Record appends one finished chunk and updates the totals.
func (s *Summary) Record(r ChunkResult) {
	s.Chunks = append(s.Chunks, r)
	s.ItemsTotal += r.Items
	if r.Failed() {
		s.ChunksFailed++
	}
}

// Failed reports whether any chunk of the run failed.
func (s *Summary) Failed() bool {
	return s.ChunksFailed > 0
}
