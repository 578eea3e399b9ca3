package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vidaleve/sofia/pkg/formatting"
)

const (
	EnvPipelineConfidenceFloor       = "SOFIA_PIPELINE_CONFIDENCE_FLOOR"
	EnvPipelinePortionMode           = "SOFIA_PIPELINE_PORTION_MODE"
	EnvPipelineStrictMode            = "SOFIA_PIPELINE_STRICT_MODE"
	EnvPipelineMinPortionConfidence  = "SOFIA_PIPELINE_MIN_PORTION_CONFIDENCE"
	EnvPipelineFetchTimeout          = "SOFIA_PIPELINE_FETCH_TIMEOUT"
	EnvPipelineFetchUserAgent        = "SOFIA_PIPELINE_FETCH_USER_AGENT"
	EnvPipelineMaxImageSize          = "SOFIA_PIPELINE_MAX_IMAGE_SIZE"
	EnvPipelineRefineUnresolvedNames = "SOFIA_PIPELINE_REFINE_UNRESOLVED_NAMES"
)

// PipelineConfig holds analysis pipeline tuning.
type PipelineConfig struct {
	ConfidenceFloor       float64 `toml:"confidence_floor"`
	PortionMode           string  `toml:"portion_mode"`
	StrictMode            *bool   `toml:"strict_mode"`
	MinPortionConfidence  float64 `toml:"min_portion_confidence"`
	FetchTimeout          string  `toml:"fetch_timeout"`
	FetchUserAgent        string  `toml:"fetch_user_agent"`
	MaxImageSize          string  `toml:"max_image_size"`
	RefineUnresolvedNames bool    `toml:"refine_unresolved_names"`
}

// Strict returns the strict-mode toggle, defaulting to on.
func (c *PipelineConfig) Strict() bool {
	if c.StrictMode == nil {
		return true
	}
	return *c.StrictMode
}

// FetchTimeoutDuration returns FetchTimeout as a time.Duration.
func (c *PipelineConfig) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.FetchTimeout)
	return d
}

// MaxImageBytes returns MaxImageSize as a byte count.
func (c *PipelineConfig) MaxImageBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxImageSize)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ConfidenceFloor != 0 {
		c.ConfidenceFloor = overlay.ConfidenceFloor
	}
	if overlay.PortionMode != "" {
		c.PortionMode = overlay.PortionMode
	}
	if overlay.StrictMode != nil {
		c.StrictMode = overlay.StrictMode
	}
	if overlay.MinPortionConfidence != 0 {
		c.MinPortionConfidence = overlay.MinPortionConfidence
	}
	if overlay.FetchTimeout != "" {
		c.FetchTimeout = overlay.FetchTimeout
	}
	if overlay.FetchUserAgent != "" {
		c.FetchUserAgent = overlay.FetchUserAgent
	}
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
	if overlay.RefineUnresolvedNames {
		c.RefineUnresolvedNames = true
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.ConfidenceFloor == 0 {
		c.ConfidenceFloor = 0.5
	}
	if c.PortionMode == "" {
		c.PortionMode = "ai_strict"
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = "30s"
	}
	if c.FetchUserAgent == "" {
		c.FetchUserAgent = "sofia-image-analysis/1.0"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "10MB"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineConfidenceFloor); v != "" {
		if floor, err := strconv.ParseFloat(v, 64); err == nil {
			c.ConfidenceFloor = floor
		}
	}
	if v := os.Getenv(EnvPipelinePortionMode); v != "" {
		c.PortionMode = v
	}
	if v := os.Getenv(EnvPipelineStrictMode); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.StrictMode = &strict
		}
	}
	if v := os.Getenv(EnvPipelineMinPortionConfidence); v != "" {
		if conf, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinPortionConfidence = conf
		}
	}
	if v := os.Getenv(EnvPipelineFetchTimeout); v != "" {
		c.FetchTimeout = v
	}
	if v := os.Getenv(EnvPipelineFetchUserAgent); v != "" {
		c.FetchUserAgent = v
	}
	if v := os.Getenv(EnvPipelineMaxImageSize); v != "" {
		c.MaxImageSize = v
	}
	if v := os.Getenv(EnvPipelineRefineUnresolvedNames); v != "" {
		if refine, err := strconv.ParseBool(v); err == nil {
			c.RefineUnresolvedNames = refine
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("invalid confidence_floor: %f", c.ConfidenceFloor)
	}
	if c.PortionMode != "ai_strict" && c.PortionMode != "defaults" {
		return fmt.Errorf("portion_mode must be ai_strict or defaults")
	}
	if c.MinPortionConfidence < 0 || c.MinPortionConfidence > 1 {
		return fmt.Errorf("invalid min_portion_confidence: %f", c.MinPortionConfidence)
	}
	if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
		return fmt.Errorf("invalid fetch_timeout: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxImageSize); err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	return nil
}
