package batch

import (
	"errors"
	"strings"
	"testing"

	"github.com/batchtools/runbatch/internal/report"
	"github.com/batchtools/runbatch/internal/syslimits"
)

// stubResolver replaces the platform resolver for the duration of a test.
func stubResolver(t *testing.T, fn func() int) {
	t.Helper()
	saved := resolveMaxLength
	resolveMaxLength = fn
	t.Cleanup(func() { resolveMaxLength = saved })
}

func TestBuildPlanPacking(t *testing.T) {
	cfg := Config{MaxCommandLength: 30}
	command := []string{"echo"} // 5 bytes, leaving a 25 byte budget

	items := []string{"aaaa", "bbbb", "cccc", "dddd", "eeee", "ffff"}
	plan, err := BuildPlan(command, items, cfg)
	if err != nil {
		t.Fatalf("Failed to build plan: %v", err)
	}

	// Each item costs 5 bytes, so 5 items fit per chunk.
	if len(plan.Chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(plan.Chunks))
	}
	if len(plan.Chunks[0].Args) != 5 || len(plan.Chunks[1].Args) != 1 {
		t.Errorf("Expected 5+1 items per chunk, got %d+%d",
			len(plan.Chunks[0].Args), len(plan.Chunks[1].Args))
	}

	// Order preserved, nothing lost or duplicated.
	var got []string
	for _, chunk := range plan.Chunks {
		if chunk.Bytes > plan.Limit {
			t.Errorf("Chunk exceeds limit: %d > %d", chunk.Bytes, plan.Limit)
		}
		got = append(got, chunk.Args...)
	}
	if strings.Join(got, ",") != strings.Join(items, ",") {
		t.Errorf("Expected items %v in order, got %v", items, got)
	}
}

func TestBuildPlanEmptyItems(t *testing.T) {
	plan, err := BuildPlan([]string{"echo"}, nil, Config{MaxCommandLength: 100})
	if err != nil {
		t.Fatalf("Failed to build plan for empty input: %v", err)
	}
	if len(plan.Chunks) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(plan.Chunks))
	}
}

func TestBuildPlanEmptyCommand(t *testing.T) {
	if _, err := BuildPlan(nil, []string{"a"}, Config{MaxCommandLength: 100}); err == nil {
		t.Error("Expected error for empty command")
	}
}

func TestBuildPlanItemTooLarge(t *testing.T) {
	_, err := BuildPlan([]string{"echo"}, []string{strings.Repeat("x", 100)}, Config{MaxCommandLength: 30})
	var tooLarge *ItemTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Expected ItemTooLargeError, got %v", err)
	}
	if tooLarge.Budget != 25 {
		t.Errorf("Expected a 25 byte budget in the error, got %d", tooLarge.Budget)
	}
}

func TestBuildPlanCommandTooLarge(t *testing.T) {
	command := []string{"a-command-longer-than-the-whole-limit"}
	if _, err := BuildPlan(command, []string{"a"}, Config{MaxCommandLength: 10}); err == nil {
		t.Error("Expected error when the fixed command alone exceeds the limit")
	}
}

func TestOverrideBypassesResolver(t *testing.T) {
	stubResolver(t, func() int {
		t.Fatal("Resolver must not be consulted when an override is set")
		return 0
	})

	plan, err := BuildPlan([]string{"echo"}, []string{"a", "b"}, Config{MaxCommandLength: 512})
	if err != nil {
		t.Fatalf("Failed to build plan: %v", err)
	}
	if plan.Limit != 512 || plan.LimitSource != report.LimitOverride {
		t.Errorf("Expected verbatim override 512, got %d from %s", plan.Limit, plan.LimitSource)
	}
}

func TestPlatformLimitResolvedLazily(t *testing.T) {
	calls := 0
	stubResolver(t, func() int {
		calls++
		return 64
	})

	// Building configs and runners must not touch the platform.
	cfg := Config{}
	_ = NewRunner(cfg, nil)
	if calls != 0 {
		t.Fatalf("Expected no resolver calls before planning, got %d", calls)
	}

	// Every plan resolves the limit afresh.
	for i := 1; i <= 3; i++ {
		if _, err := BuildPlan([]string{"echo"}, []string{"a"}, cfg); err != nil {
			t.Fatalf("Failed to build plan: %v", err)
		}
		if calls != i {
			t.Fatalf("Expected %d resolver calls after %d plans, got %d", i, i, calls)
		}
	}
}

func TestDeniedQueryFallsBackToFloor(t *testing.T) {
	// A denied platform query surfaces as the resolver returning the
	// POSIX floor; batching proceeds with smaller chunks.
	stubResolver(t, func() int { return syslimits.PosixArgMaxFloor })

	items := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		items = append(items, strings.Repeat("f", 99)) // 100 bytes each on the argv
	}

	plan, err := BuildPlan([]string{"echo"}, items, Config{})
	if err != nil {
		t.Fatalf("Failed to build plan: %v", err)
	}
	if plan.Limit != syslimits.PosixArgMaxFloor || plan.LimitSource != report.LimitPlatform {
		t.Errorf("Expected platform limit %d, got %d from %s",
			syslimits.PosixArgMaxFloor, plan.Limit, plan.LimitSource)
	}
	// 200 items of 100 bytes need 20000 bytes, so several chunks.
	if len(plan.Chunks) < 5 {
		t.Errorf("Expected at least 5 chunks under the floor limit, got %d", len(plan.Chunks))
	}
	total := 0
	for _, chunk := range plan.Chunks {
		if chunk.Bytes > plan.Limit {
			t.Errorf("Chunk exceeds floor limit: %d > %d", chunk.Bytes, plan.Limit)
		}
		total += len(chunk.Args)
	}
	if total != 200 {
		t.Errorf("Expected all 200 items planned, got %d", total)
	}
}
