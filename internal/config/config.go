// Package config loads shelf configuration from an optional YAML file
// and merges CLI flags over it. The merged configuration is immutable
// for the duration of a run and passed explicitly into every stage.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the default per-directory configuration file.
const FileName = ".shelf.yaml"

// Config represents shelf configuration options
type Config struct {
	// Out is the output root directory (name or path)
	Out string `yaml:"out"`

	// NoRename skips the rename stage entirely
	NoRename bool `yaml:"no_rename"`

	// IncludeHidden makes dot-prefixed entries eligible
	IncludeHidden bool `yaml:"include_hidden"`

	// DryRun computes and reports actions without filesystem mutation
	DryRun bool `yaml:"dry_run"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// FallbackBucket is the subfolder for files without an extension
	FallbackBucket string `yaml:"fallback_bucket"`

	// Buckets remaps extensions to alias buckets, e.g. jpeg: jpg.
	// Keys are normalized to lowercase without a leading dot.
	Buckets map[string]string `yaml:"buckets"`

	// Notes is a markdown file rendered into the HTML index preamble
	Notes string `yaml:"notes"`

	// PDF enables the image gallery PDF
	PDF bool `yaml:"pdf"`

	// PDFName is the gallery filename under the output root
	PDFName string `yaml:"pdf_name"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Out:            "out",
		NoRename:       false,
		IncludeHidden:  false,
		DryRun:         false,
		LogLevel:       "info",
		FallbackBucket: "noext",
		Buckets:        nil,
		Notes:          "",
		PDF:            false,
		PDFName:        "gallery.pdf",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without
// error. If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.Out != "" {
		cfg.Out = fileCfg.Out
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.FallbackBucket != "" {
		cfg.FallbackBucket = fileCfg.FallbackBucket
	}
	if fileCfg.Notes != "" {
		cfg.Notes = fileCfg.Notes
	}
	if fileCfg.PDFName != "" {
		cfg.PDFName = fileCfg.PDFName
	}
	// Booleans are explicitly set if present and true in YAML
	if fileCfg.NoRename {
		cfg.NoRename = true
	}
	if fileCfg.IncludeHidden {
		cfg.IncludeHidden = true
	}
	if fileCfg.DryRun {
		cfg.DryRun = true
	}
	if fileCfg.PDF {
		cfg.PDF = true
	}
	if len(fileCfg.Buckets) > 0 {
		cfg.Buckets = make(map[string]string, len(fileCfg.Buckets))
		for ext, bucket := range fileCfg.Buckets {
			key := strings.ToLower(strings.TrimPrefix(ext, "."))
			cfg.Buckets[key] = bucket
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .shelf.yaml in the
// specified directory. If the file doesn't exist, returns default
// configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values, so CLI flags take
// precedence over config file settings.
func (c *Config) MergeWithFlags(out *string, noRename, includeHidden, dryRun *bool, notes *string, pdf *bool, pdfName *string) {
	if out != nil {
		c.Out = *out
	}
	if noRename != nil {
		c.NoRename = *noRename
	}
	if includeHidden != nil {
		c.IncludeHidden = *includeHidden
	}
	if dryRun != nil {
		c.DryRun = *dryRun
	}
	if notes != nil {
		c.Notes = *notes
	}
	if pdf != nil {
		c.PDF = *pdf
	}
	if pdfName != nil {
		c.PDFName = *pdfName
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.Out == "" {
		return fmt.Errorf("out cannot be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	if err := validBucketName(c.FallbackBucket); err != nil {
		return fmt.Errorf("invalid fallback_bucket: %w", err)
	}
	for ext, bucket := range c.Buckets {
		if ext == "" {
			return fmt.Errorf("buckets contains an empty extension key")
		}
		if err := validBucketName(bucket); err != nil {
			return fmt.Errorf("invalid bucket for extension %q: %w", ext, err)
		}
	}

	if c.PDFName == "" {
		return fmt.Errorf("pdf_name cannot be empty")
	}
	if strings.ContainsAny(c.PDFName, `/\`) {
		return fmt.Errorf("pdf_name %q must not contain path separators", c.PDFName)
	}

	return nil
}

// validBucketName rejects names that would escape the output root.
func validBucketName(name string) error {
	if name == "" {
		return fmt.Errorf("bucket name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("bucket name %q must not contain path separators", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("bucket name %q is reserved", name)
	}
	return nil
}
