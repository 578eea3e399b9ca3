package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvDetectorEnabled         = "SOFIA_DETECTOR_ENABLED"
	EnvDetectorCredentialsFile = "SOFIA_DETECTOR_CREDENTIALS_FILE"
	EnvDetectorMinScore        = "SOFIA_DETECTOR_MIN_SCORE"
)

// DetectorConfig holds object-detection strategy settings. The strategy is
// optional; when disabled the pipeline relies on the vision-language model
// alone.
type DetectorConfig struct {
	Enabled         bool    `toml:"enabled"`
	CredentialsFile string  `toml:"credentials_file"`
	MinScore        float64 `toml:"min_score"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DetectorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DetectorConfig) Merge(overlay *DetectorConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
	if overlay.MinScore != 0 {
		c.MinScore = overlay.MinScore
	}
}

func (c *DetectorConfig) loadDefaults() {
	if c.MinScore == 0 {
		c.MinScore = 0.35
	}
}

func (c *DetectorConfig) loadEnv() {
	if v := os.Getenv(EnvDetectorEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvDetectorCredentialsFile); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv(EnvDetectorMinScore); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinScore = score
		}
	}
}

func (c *DetectorConfig) validate() error {
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("invalid min_score: %f", c.MinScore)
	}
	return nil
}
