package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/batchtools/runbatch/internal/logging"
)

var (
	cfgFile      string
	logLevel     string
	logJSON      bool
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "runbatch",
	Short: "Run a command over many items in argument-size-safe batches",
	Long: `runbatch splits a large list of items into multiple invocations of a
command, keeping each invocation under the operating system's argument-size
limit. The limit is resolved from the platform when each run starts, so a
sandbox that denies the query only shrinks the batches instead of breaking
the tool.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.runbatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table, json or yaml")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".runbatch"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// Bind specific environment variables
	viper.BindEnv("max_length", "RUNBATCH_MAX_LENGTH")
	viper.BindEnv("log_level", "RUNBATCH_LOG_LEVEL")
	viper.BindEnv("metrics_file", "RUNBATCH_METRICS_FILE")

	viper.SetDefault("max_length", 0)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("metrics_file", "")

	// A missing config file is fine; explicit files must exist
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}

	if logLevel == "" {
		logLevel = viper.GetString("log_level")
	}
}

// newLogger builds the logger configured by flags and config
func newLogger() *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(logLevel), logJSON)
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}

// IsYAMLOutput returns true if YAML output is requested
func IsYAMLOutput() bool {
	return outputFormat == "yaml"
}
