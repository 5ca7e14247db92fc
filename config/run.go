package config

import (
	"runtime"
	"time"
)

const (
	ModeQuality = "quality"
	ModeProduct = "product"

	DefaultQualityHorizon = 24
	DefaultProductHorizon = 32
	DefaultProductLimit   = 3
)

// RunConfig selects the catalogue and how it is searched.
type RunConfig struct {
	// Input is the catalogue path (.txt, .yaml, .yml or .json).
	Input string `json:"input" validate:"omitempty,file"`
	// Horizon is the number of steps; zero picks the mode default.
	Horizon int    `json:"horizon" validate:"gte=0,lte=64"`
	Mode    string `json:"mode" validate:"oneof=quality product"`
	// Limit is the number of leading blueprints scored in product mode.
	Limit       int `json:"limit" validate:"gte=0"`
	Parallelism int `json:"parallelism" validate:"gte=1"`
	// TimeoutSeconds bounds each search; zero disables the timeout.
	TimeoutSeconds float64 `json:"timeout_seconds" validate:"gte=0"`
	TracePlan      bool    `json:"trace_plan"`

	horizonSet bool
}

// SetDefaults applies mode dependent defaults.
func (c *RunConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeQuality
	}
	if c.Horizon == 0 && !c.horizonSet {
		c.Horizon = DefaultQualityHorizon
		if c.Mode == ModeProduct {
			c.Horizon = DefaultProductHorizon
		}
	}
	if c.Limit == 0 && c.Mode == ModeProduct {
		c.Limit = DefaultProductLimit
	}
	if c.Parallelism <= 0 {
		c.Parallelism = runtime.NumCPU()
	}
}

// SetHorizon sets an explicit horizon that SetDefaults keeps even when it
// is zero.
func (c *RunConfig) SetHorizon(h int) {
	c.Horizon = h
	c.horizonSet = true
}

// Timeout returns the per-search timeout.
func (c RunConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Validate checks the struct tags.
func (c RunConfig) Validate() error {
	return validateStruct(c)
}
