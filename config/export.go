package config

import (
	"path/filepath"
	"strings"
)

// ExportConfig controls where the run report is written.
type ExportConfig struct {
	// Path of the report file; empty disables export.
	Path string `json:"path"`
	// Format is json or csv; inferred from Path when empty.
	Format string `json:"format" validate:"omitempty,oneof=json csv"`
}

// SetDefaults infers the format from the file extension.
func (c *ExportConfig) SetDefaults() {
	if c.Format != "" || c.Path == "" {
		return
	}
	if strings.EqualFold(filepath.Ext(c.Path), ".csv") {
		c.Format = "csv"
	} else {
		c.Format = "json"
	}
}

// Enabled reports whether a report should be written.
func (c ExportConfig) Enabled() bool { return c.Path != "" }

// Validate checks the format.
func (c ExportConfig) Validate() error {
	return validateStruct(c)
}
