package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration. They describe the monitor log format the
// scorers were written against.
const (
	DefaultMarker         = "Secondary"
	DefaultSectionMarker  = "Relative importance metrics"
	DefaultTopMarker      = "[ 1]"
	DefaultWebhookTimeout = 10 * time.Second
)

// DefaultFields is the token layout of a monitor event line.
var DefaultFields = FieldLayout{
	Date:  0,
	Time:  1,
	ID:    6,
	P:     14,
	P2:    16,
	RI:    18,
	Onset: 22,
}

// Environment variable names.
const (
	EnvMarker = "BIFINDER_MARKER"
	EnvStrict = "BIFINDER_STRICT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Marker: DefaultMarker,
		Fields: DefaultFields,
		Rank: RankConfig{
			SectionMarker: DefaultSectionMarker,
			TopMarker:     DefaultTopMarker,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if marker := os.Getenv(EnvMarker); marker != "" {
		c.Marker = marker
	}
	if v := os.Getenv(EnvStrict); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Strict = strict
		}
	}
}
