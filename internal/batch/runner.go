package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/batchtools/runbatch/internal/logging"
	"github.com/batchtools/runbatch/internal/metrics"
	"github.com/batchtools/runbatch/internal/report"
)

// Runner executes a batched run. Chunks run sequentially; one failing
// chunk never hides the results of the ones before it.
type Runner struct {
	cfg       Config
	logger    *logging.Logger
	collector *metrics.Collector
}

// NewRunner creates a runner. The collector is optional.
func NewRunner(cfg Config, collector *metrics.Collector) *Runner {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.INFO, false)
	}
	return &Runner{
		cfg:       cfg,
		logger:    logger.WithComponent("batch"),
		collector: collector,
	}
}

// Run plans and executes the batched invocations of command over items.
// The returned summary is valid even when the run was stopped early; the
// error is non-nil only when planning failed or the context ended.
func (r *Runner) Run(ctx context.Context, command []string, items []string) (*report.Summary, error) {
	plan, err := BuildPlan(command, items, r.cfg)
	if err != nil {
		return nil, err
	}

	if r.collector != nil {
		r.collector.SetArgLimit(plan.Limit)
	}

	r.logger.Debug("plan built", map[string]interface{}{
		"chunks":       len(plan.Chunks),
		"items":        len(items),
		"limit_bytes":  plan.Limit,
		"limit_source": string(plan.LimitSource),
	})

	summary := report.NewSummary(strings.Join(command, " "), plan.Limit, plan.LimitSource)
	start := time.Now()

	for i, chunk := range plan.Chunks {
		result := r.runChunk(ctx, i, plan.Command, chunk)
		summary.Record(result)
		if r.collector != nil {
			r.collector.ObserveChunk(result.Items, result.Bytes, result.Failed())
		}

		if ctx.Err() != nil {
			summary.Duration = time.Since(start)
			return summary, ctx.Err()
		}
		if result.Failed() && r.cfg.StopOnError {
			r.logger.Warn("stopping after failed invocation", map[string]interface{}{
				"chunk": i,
				"exit":  result.ExitCode,
			})
			break
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func (r *Runner) runChunk(ctx context.Context, index int, command []string, chunk Chunk) report.ChunkResult {
	result := report.ChunkResult{
		Index: index,
		Items: len(chunk.Args),
		Bytes: chunk.Bytes,
	}

	argv := make([]string, 0, len(command)-1+len(chunk.Args))
	argv = append(argv, command[1:]...)
	argv = append(argv, chunk.Args...)

	if r.cfg.DryRun {
		fmt.Fprintf(r.cfg.Stdout, "%s %s\n", strings.Join(command, " "), strings.Join(chunk.Args, " "))
		return result
	}

	r.logger.Debug("spawning invocation", map[string]interface{}{
		"chunk": index,
		"items": result.Items,
		"bytes": result.Bytes,
	})

	cmd := exec.CommandContext(ctx, command[0], argv...)
	cmd.Stdout = r.cfg.Stdout
	cmd.Stderr = r.cfg.Stderr

	started := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(started)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn failure: command missing, permission denied,
			// context cancelled before exec.
			result.ExitCode = -1
		}
		result.Error = err.Error()
	}

	return result
}
