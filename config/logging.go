package config

// LoggingConfig defines the log output.
type LoggingConfig struct {
	// Level is the minimum zerolog level.
	Level string `json:"level" validate:"oneof=trace debug info warn error disabled"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	return validateStruct(c)
}
