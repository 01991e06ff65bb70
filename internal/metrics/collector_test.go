package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCollectorWriteFile(t *testing.T) {
	collector := NewCollector()
	collector.SetArgLimit(4096)
	collector.ObserveChunk(10, 3500, false)
	collector.ObserveChunk(4, 1200, true)

	path := filepath.Join(t.TempDir(), "runbatch.prom")
	if err := collector.WriteFile(path); err != nil {
		t.Fatalf("Failed to write metrics file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read metrics file: %v", err)
	}
	out := string(data)

	expected := []string{
		`runbatch_arg_limit_bytes 4096`,
		`runbatch_chunks_total{status="ok"} 1`,
		`runbatch_chunks_total{status="failed"} 1`,
		`runbatch_items_total 14`,
		`runbatch_command_bytes_total 4700`,
	}
	for _, line := range expected {
		if !strings.Contains(out, line) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", line, out)
		}
	}
}

func TestWriteFileLeavesNoTempFile(t *testing.T) {
	collector := NewCollector()
	dir := t.TempDir()
	path := filepath.Join(dir, "runbatch.prom")

	if err := collector.WriteFile(path); err != nil {
		t.Fatalf("Failed to write metrics file: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list directory: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "runbatch.prom" {
		t.Errorf("Expected only runbatch.prom in directory, got %v", entries)
	}
}
