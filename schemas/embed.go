// Package schemas embeds the JSON Schemas for artifacts the content engine reads and writes.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names
const (
	RuleOverrides = "rule_overrides.schema.json"
	QualityReport = "quality_report.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the content of an embedded schema file
func Load(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return string(data), nil
}

// Names lists every embedded schema file
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
