package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical solver defaults file.
const DefaultConfigPath = "config/align.defaults.json"

// Defaults applied by the Get* accessors when a field is unset.
const (
	DefaultMinOverlap = 12
	DefaultWorkers    = 1
	DefaultLogLevel   = "info"
)

// maxConfigBytes caps the size of a config file.
const maxConfigBytes = 1 * 1024 * 1024

// AlignConfig holds solver settings. Pointer fields distinguish "unset"
// from zero so partial files only override what they name.
type AlignConfig struct {
	// MinOverlap is the number of shared beacons that proves two
	// scanners overlap. It applies to every pair in a run.
	MinOverlap *int `json:"min_overlap,omitempty" yaml:"min_overlap,omitempty"`

	// Workers bounds how many candidate scanners are searched at once
	// within a round. 1 keeps the solve single-threaded.
	Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// AllowPartial reports answers over the placed scanners instead of
	// failing when some scanners cannot be placed.
	AllowPartial *bool `json:"allow_partial,omitempty" yaml:"allow_partial,omitempty"`

	// Timeout bounds the whole solve, as a duration string like "30s".
	// Empty means no limit.
	Timeout *string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	LogLevel *string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Helper functions to create pointers
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyAlignConfig returns an AlignConfig with all fields unset.
func EmptyAlignConfig() *AlignConfig {
	return &AlignConfig{}
}

// DefaultAlignConfig returns an AlignConfig with every field set to its
// default.
func DefaultAlignConfig() *AlignConfig {
	return &AlignConfig{
		MinOverlap:   ptrInt(DefaultMinOverlap),
		Workers:      ptrInt(DefaultWorkers),
		AllowPartial: ptrBool(false),
		Timeout:      ptrString(""),
		LogLevel:     ptrString(DefaultLogLevel),
	}
}

// LoadAlignConfig loads an AlignConfig from a .json, .yaml or .yml file.
// Fields omitted from the file keep their defaults via the Get* methods.
func LoadAlignConfig(path string) (*AlignConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigBytes {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigBytes)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAlignConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", ext, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the
// file cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *AlignConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAlignConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that set values are usable.
func (c *AlignConfig) Validate() error {
	if c.MinOverlap != nil && *c.MinOverlap < 1 {
		return fmt.Errorf("min_overlap must be at least 1, got %d", *c.MinOverlap)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.Timeout != nil && *c.Timeout != "" {
		d, err := time.ParseDuration(*c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", *c.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must be non-negative, got %s", d)
		}
	}
	if c.LogLevel != nil && *c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(*c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level '%s': %w", *c.LogLevel, err)
		}
	}
	return nil
}

// Merge overlays every set field of o onto c.
func (c *AlignConfig) Merge(o *AlignConfig) {
	if o == nil {
		return
	}
	if o.MinOverlap != nil {
		c.MinOverlap = ptrInt(*o.MinOverlap)
	}
	if o.Workers != nil {
		c.Workers = ptrInt(*o.Workers)
	}
	if o.AllowPartial != nil {
		c.AllowPartial = ptrBool(*o.AllowPartial)
	}
	if o.Timeout != nil {
		c.Timeout = ptrString(*o.Timeout)
	}
	if o.LogLevel != nil {
		c.LogLevel = ptrString(*o.LogLevel)
	}
}

// GetMinOverlap returns the min_overlap value or the default.
func (c *AlignConfig) GetMinOverlap() int {
	if c.MinOverlap == nil {
		return DefaultMinOverlap
	}
	return *c.MinOverlap
}

// GetWorkers returns the workers value or the default.
func (c *AlignConfig) GetWorkers() int {
	if c.Workers == nil {
		return DefaultWorkers
	}
	return *c.Workers
}

// GetAllowPartial returns the allow_partial value or the default.
func (c *AlignConfig) GetAllowPartial() bool {
	if c.AllowPartial == nil {
		return false
	}
	return *c.AllowPartial
}

// GetTimeout parses and returns Timeout. Zero means no limit.
func (c *AlignConfig) GetTimeout() time.Duration {
	if c.Timeout == nil || *c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.Timeout)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}

// GetLogLevel returns the log_level value or the default.
func (c *AlignConfig) GetLogLevel() string {
	if c.LogLevel == nil || *c.LogLevel == "" {
		return DefaultLogLevel
	}
	return *c.LogLevel
}
