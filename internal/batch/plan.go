package batch

import (
	"errors"
	"fmt"

	"github.com/batchtools/runbatch/internal/report"
)

// Chunk is one planned subprocess invocation.
type Chunk struct {
	// Args are the items of this invocation, in input order.
	Args []string
	// Bytes is the full argv cost of the invocation, fixed command
	// included.
	Bytes int
}

// Plan is the split of an item list into invocations, each under the byte
// budget in effect when the plan was built.
type Plan struct {
	Command     []string
	Limit       int
	LimitSource report.LimitSource
	Chunks      []Chunk
}

// ItemTooLargeError reports a single item that cannot fit into any
// invocation, no matter how the rest are packed.
type ItemTooLargeError struct {
	Item   string
	Budget int
}

func (e *ItemTooLargeError) Error() string {
	item := e.Item
	if len(item) > 60 {
		item = item[:57] + "..."
	}
	return fmt.Sprintf("item %q needs %d bytes but only %d remain after the fixed command", item, len(e.Item)+1, e.Budget)
}

// argvCost is the byte cost of arguments on the exec argument list. Each
// string is counted with its terminating NUL.
func argvCost(args []string) int {
	cost := 0
	for _, arg := range args {
		cost += len(arg) + 1
	}
	return cost
}

// BuildPlan packs items into chunks, greedily and in order, so that every
// invocation of command stays under the effective byte budget. The budget
// is resolved here, on every call, never cached at load time.
func BuildPlan(command []string, items []string, cfg Config) (*Plan, error) {
	if len(command) == 0 {
		return nil, errors.New("no command given")
	}

	limit, source := cfg.EffectiveMaxLength()
	base := argvCost(command)
	if base >= limit {
		return nil, fmt.Errorf("fixed command needs %d bytes, over the %d byte limit", base, limit)
	}
	budget := limit - base

	plan := &Plan{
		Command:     command,
		Limit:       limit,
		LimitSource: source,
		Chunks:      []Chunk{},
	}

	var pending []string
	pendingBytes := 0
	flush := func() {
		if len(pending) == 0 {
			return
		}
		plan.Chunks = append(plan.Chunks, Chunk{
			Args:  pending,
			Bytes: base + pendingBytes,
		})
		pending = nil
		pendingBytes = 0
	}

	for _, item := range items {
		cost := len(item) + 1
		if cost > budget {
			return nil, &ItemTooLargeError{Item: item, Budget: budget}
		}
		if pendingBytes+cost > budget {
			flush()
		}
		pending = append(pending, item)
		pendingBytes += cost
	}
	flush()

	return plan, nil
}
