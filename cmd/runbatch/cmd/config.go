package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect runbatch configuration",
	Long:  `Commands for inspecting the configuration assembled from flags, environment variables and the config file.`,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

// EffectiveConfig is the resolved configuration of the current invocation.
type EffectiveConfig struct {
	MaxLength   int    `json:"max_length" yaml:"max_length"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogJSON     bool   `json:"log_json" yaml:"log_json"`
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
	ConfigFile  string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := EffectiveConfig{
		MaxLength:   viper.GetInt("max_length"),
		LogLevel:    logLevel,
		LogJSON:     logJSON,
		MetricsFile: viper.GetString("metrics_file"),
		ConfigFile:  viper.ConfigFileUsed(),
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	output, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(output))
	return nil
}
