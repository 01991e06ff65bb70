package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/batchtools/runbatch/internal/batch"
	"github.com/batchtools/runbatch/internal/metrics"
	"github.com/batchtools/runbatch/internal/report"
)

var (
	runMaxLength   int
	runDryRun      bool
	runStopOnError bool
	runNullDelim   bool
	runArgFile     string
	runMetricsFile string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [fixed-args...]",
	Short: "Run a command over items read from stdin or a file",
	Long: `Reads items (one per line, or NUL-delimited with --null) and appends them
to the given command in batches, each batch kept under the platform
argument-size limit. An explicit --max-length bypasses the platform entirely.

Example:
  find . -name '*.log' | runbatch run -- gzip -9`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runMaxLength, "max-length", 0,
		"byte budget per invocation (0 = resolve from the platform at run time)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print invocations instead of running them")
	runCmd.Flags().BoolVar(&runStopOnError, "stop-on-error", false, "stop at the first failing invocation")
	runCmd.Flags().BoolVarP(&runNullDelim, "null", "0", false, "items are NUL-delimited instead of newline-delimited")
	runCmd.Flags().StringVar(&runArgFile, "arg-file", "", "read items from a file instead of stdin")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "",
		"write run metrics in Prometheus text format to this file")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	var input io.Reader = os.Stdin
	if runArgFile != "" {
		f, err := os.Open(runArgFile)
		if err != nil {
			return fmt.Errorf("failed to open arg file: %w", err)
		}
		defer f.Close()
		input = f
	}

	items, err := readItems(input, runNullDelim)
	if err != nil {
		return fmt.Errorf("failed to read items: %w", err)
	}

	maxLength := runMaxLength
	if !cmd.Flags().Changed("max-length") {
		maxLength = viper.GetInt("max_length")
	}
	metricsFile := runMetricsFile
	if metricsFile == "" {
		metricsFile = viper.GetString("metrics_file")
	}

	var collector *metrics.Collector
	if metricsFile != "" {
		collector = metrics.NewCollector()
	}

	cfg := batch.Config{
		MaxCommandLength: maxLength,
		DryRun:           runDryRun,
		StopOnError:      runStopOnError,
		Logger:           logger,
	}

	runner := batch.NewRunner(cfg, collector)
	summary, err := runner.Run(cmd.Context(), args, items)
	if err != nil {
		return err
	}

	if collector != nil {
		if err := collector.WriteFile(metricsFile); err != nil {
			logger.Warn("failed to write metrics file", map[string]interface{}{
				"path":  metricsFile,
				"error": err.Error(),
			})
		}
	}

	if !runDryRun {
		if err := writeSummary(os.Stdout, summary); err != nil {
			return err
		}
	}

	if summary.Failed() {
		return fmt.Errorf("%d of %d invocations failed", summary.ChunksFailed, len(summary.Chunks))
	}
	return nil
}

// readItems reads newline- or NUL-delimited items, skipping empty ones.
func readItems(r io.Reader, nullDelim bool) ([]string, error) {
	scanner := bufio.NewScanner(r)
	// Single items can approach the platform limit; give the scanner room.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if nullDelim {
		scanner.Split(scanNull)
	}

	var items []string
	for scanner.Scan() {
		item := scanner.Text()
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items, scanner.Err()
}

// scanNull is a bufio.SplitFunc for NUL-delimited input.
func scanNull(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// writeSummary renders a summary in the requested output format.
func writeSummary(w io.Writer, summary *report.Summary) error {
	switch {
	case IsJSONOutput():
		return report.ExportJSON(w, summary)
	case IsYAMLOutput():
		return report.ExportYAML(w, summary)
	default:
		report.WriteTable(w, summary)
		return nil
	}
}
