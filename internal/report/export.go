package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ExportJSON writes the summary as indented JSON.
func ExportJSON(w io.Writer, s *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary as JSON: %w", err)
	}
	return nil
}

// ExportYAML writes the summary as YAML.
func ExportYAML(w io.Writer, s *Summary) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary as YAML: %w", err)
	}
	return nil
}
