package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/batchtools/runbatch/internal/syslimits"
)

// limitsCmd represents the limits command
var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Show the platform limits runbatch will batch against",
	Long: `Shows the argument-size limit reported by the operating system, the
effective per-invocation byte budget derived from it, and basic host
hardware. Useful to see whether a sandbox is denying the platform query,
in which case the guaranteed POSIX floor is in effect.`,
	RunE: runLimits,
}

func init() {
	rootCmd.AddCommand(limitsCmd)
}

// LimitsInfo is the diagnostic snapshot shown by the limits command.
type LimitsInfo struct {
	ReportedArgMax int64  `json:"reported_arg_max,omitempty" yaml:"reported_arg_max,omitempty"`
	ReportError    string `json:"report_error,omitempty" yaml:"report_error,omitempty"`
	EffectiveMax   int    `json:"effective_max_bytes" yaml:"effective_max_bytes"`
	FallbackFloor  int    `json:"fallback_floor_bytes" yaml:"fallback_floor_bytes"`
	CPUThreads     int    `json:"cpu_threads" yaml:"cpu_threads"`
	RAMBytes       uint64 `json:"ram_bytes" yaml:"ram_bytes"`
	OS             string `json:"os" yaml:"os"`
	Architecture   string `json:"architecture" yaml:"architecture"`
}

func runLimits(cmd *cobra.Command, args []string) error {
	info := LimitsInfo{
		EffectiveMax:  syslimits.MaxCommandLength(),
		FallbackFloor: syslimits.PosixArgMaxFloor,
		OS:            runtime.GOOS,
		Architecture:  runtime.GOARCH,
	}

	if reported, err := syslimits.ReportedArgMax(); err != nil {
		info.ReportError = err.Error()
	} else {
		info.ReportedArgMax = reported
	}

	if threads, err := cpu.Counts(true); err == nil {
		info.CPUThreads = threads
	} else {
		info.CPUThreads = runtime.NumCPU()
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.RAMBytes = vm.Total
	}

	switch {
	case IsJSONOutput():
		output, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	case IsYAMLOutput():
		output, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		fmt.Print(string(output))
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("PROPERTY", "VALUE")

		reported := "unavailable"
		if info.ReportError != "" {
			reported = fmt.Sprintf("denied (%s)", info.ReportError)
		} else if info.ReportedArgMax > 0 {
			reported = fmt.Sprintf("%d bytes", info.ReportedArgMax)
		}

		table.Append("Reported arg max", reported)
		table.Append("Effective budget", fmt.Sprintf("%d bytes", info.EffectiveMax))
		table.Append("Fallback floor", fmt.Sprintf("%d bytes", info.FallbackFloor))
		table.Append("CPU threads", fmt.Sprintf("%d", info.CPUThreads))
		table.Append("Total RAM", fmt.Sprintf("%d bytes", info.RAMBytes))
		table.Append("Platform", info.OS+"/"+info.Architecture)

		table.Render()
	}

	return nil
}
