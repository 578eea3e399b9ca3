package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAnnotationEnabled  = "SOFIA_ANNOTATION_ENABLED"
	EnvAnnotationEndpoint = "SOFIA_ANNOTATION_ENDPOINT"
	EnvAnnotationToken    = "SOFIA_ANNOTATION_TOKEN"
	EnvAnnotationProject  = "SOFIA_ANNOTATION_PROJECT"
	EnvAnnotationTimeout  = "SOFIA_ANNOTATION_TIMEOUT"
)

// AnnotationConfig holds external annotation queue settings.
type AnnotationConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	Project  string `toml:"project"`
	Timeout  string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AnnotationConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnnotationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnnotationConfig) Merge(overlay *AnnotationConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Project != "" {
		c.Project = overlay.Project
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *AnnotationConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *AnnotationConfig) loadEnv() {
	if v := os.Getenv(EnvAnnotationEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvAnnotationEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvAnnotationToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvAnnotationProject); v != "" {
		c.Project = v
	}
	if v := os.Getenv(EnvAnnotationTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *AnnotationConfig) validate() error {
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("endpoint required when annotation is enabled")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
