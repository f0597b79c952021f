// Package config builds the immutable run configuration for folder2index.
//
// Values are applied in order of increasing precedence:
//  1. Hardcoded defaults
//  2. An optional YAML file (--config)
//  3. Command-line flags
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
)

// Defaults.
const (
	DefaultEncoding  = "UTF-8"
	DefaultBackend   = "bleve"
	DefaultBatchSize = 100
)

// validBackends lists the accepted index backends.
var validBackends = []string{"bleve", "sqlite"}

// Config is the run configuration. It is built once and passed by value.
type Config struct {
	// Index is the target index location. It is recreated on every run.
	Index string `yaml:"index"`

	// Folders are the roots to enumerate, files or directories.
	Folders []string `yaml:"folders"`

	// Encoding is the charset of .txt files in plain-text mode.
	Encoding string `yaml:"encoding"`

	// Extract selects extraction mode (--use-tika).
	Extract bool `yaml:"use_tika"`

	// Backend selects the index implementation: bleve or sqlite.
	Backend string `yaml:"backend"`

	// Exclude lists glob patterns of paths to leave out.
	Exclude []string `yaml:"exclude"`

	// FollowSymlinks follows symbolic links during enumeration.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// BatchSize is the number of documents buffered per index flush.
	BatchSize int `yaml:"batch_size"`

	// Debug enables JSON debug logging to the log file and stderr.
	Debug bool `yaml:"debug"`

	// NoColor disables styled terminal output.
	NoColor bool `yaml:"no_color"`
}

// fileConfig is the YAML schema. Pointer fields distinguish "unset" from
// the zero value so that file values only override what they name.
type fileConfig struct {
	Index          string   `yaml:"index"`
	Folders        []string `yaml:"folders"`
	Encoding       string   `yaml:"encoding"`
	Extract        *bool    `yaml:"use_tika"`
	Backend        string   `yaml:"backend"`
	Exclude        []string `yaml:"exclude"`
	FollowSymlinks *bool    `yaml:"follow_symlinks"`
	BatchSize      int      `yaml:"batch_size"`
	Debug          *bool    `yaml:"debug"`
	NoColor        *bool    `yaml:"no_color"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Encoding:       DefaultEncoding,
		Backend:        DefaultBackend,
		FollowSymlinks: true,
		BatchSize:      DefaultBatchSize,
	}
}

// Load returns the defaults merged with the YAML file at path.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed fileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Config{}, apperrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	return cfg.mergeFile(parsed), nil
}

// mergeFile returns c with the values set in f applied.
func (c Config) mergeFile(f fileConfig) Config {
	if f.Index != "" {
		c.Index = f.Index
	}
	if len(f.Folders) > 0 {
		c.Folders = append([]string(nil), f.Folders...)
	}
	if f.Encoding != "" {
		c.Encoding = f.Encoding
	}
	if f.Extract != nil {
		c.Extract = *f.Extract
	}
	if f.Backend != "" {
		c.Backend = f.Backend
	}
	if len(f.Exclude) > 0 {
		c.Exclude = append([]string(nil), f.Exclude...)
	}
	if f.FollowSymlinks != nil {
		c.FollowSymlinks = *f.FollowSymlinks
	}
	if f.BatchSize != 0 {
		c.BatchSize = f.BatchSize
	}
	if f.Debug != nil {
		c.Debug = *f.Debug
	}
	if f.NoColor != nil {
		c.NoColor = *f.NoColor
	}
	return c
}

// Overrides holds values given on the command line. Nil fields were not
// set and leave the configuration unchanged.
type Overrides struct {
	Index          *string
	Folders        []string
	Encoding       *string
	Extract        *bool
	Backend        *string
	Exclude        []string
	FollowSymlinks *bool
	BatchSize      *int
	Debug          *bool
	NoColor        *bool
}

// With returns c with o applied. Command-line folders and excludes add to
// those from the file.
func (c Config) With(o Overrides) Config {
	if o.Index != nil {
		c.Index = *o.Index
	}
	if len(o.Folders) > 0 {
		c.Folders = append(append([]string(nil), c.Folders...), o.Folders...)
	}
	if o.Encoding != nil {
		c.Encoding = *o.Encoding
	}
	if o.Extract != nil {
		c.Extract = *o.Extract
	}
	if o.Backend != nil {
		c.Backend = *o.Backend
	}
	if len(o.Exclude) > 0 {
		c.Exclude = append(append([]string(nil), c.Exclude...), o.Exclude...)
	}
	if o.FollowSymlinks != nil {
		c.FollowSymlinks = *o.FollowSymlinks
	}
	if o.BatchSize != nil {
		c.BatchSize = *o.BatchSize
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	if o.NoColor != nil {
		c.NoColor = *o.NoColor
	}
	return c
}

// Validate returns an argument error describing the first invalid value.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Index) == "" {
		return apperrors.ArgumentError(`option "--index" is required`, nil)
	}
	if len(c.Folders) == 0 {
		return apperrors.ArgumentError(`option "--folder" is required`, nil)
	}
	for _, folder := range c.Folders {
		if strings.TrimSpace(folder) == "" {
			return apperrors.ArgumentError("folder paths must not be empty", nil)
		}
	}
	if !isValidBackend(c.Backend) {
		return apperrors.ArgumentError(fmt.Sprintf("backend must be one of %s, got %q",
			strings.Join(validBackends, ", "), c.Backend), nil)
	}
	if c.BatchSize <= 0 {
		return apperrors.ArgumentError(fmt.Sprintf("batch size must be positive, got %d", c.BatchSize), nil)
	}
	if !c.Extract && strings.TrimSpace(c.Encoding) == "" {
		return apperrors.ArgumentError("encoding must not be empty", nil)
	}
	return nil
}

func isValidBackend(name string) bool {
	for _, b := range validBackends {
		if strings.EqualFold(strings.TrimSpace(name), b) {
			return true
		}
	}
	return false
}
