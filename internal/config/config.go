// Package config handles gltftool configuration loading and management.
package config

import "github.com/Faultbox/midgard-gltf/pkg/gltf"

// Config holds all gltftool settings.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Import     ImportConfig     `yaml:"import"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ValidationConfig selects how thoroughly documents are checked.
type ValidationConfig struct {
	Level      string   `yaml:"level"`      // minimal or complete
	Extensions []string `yaml:"extensions"` // supported in addition to the built-in list
	Buffers    bool     `yaml:"buffers"`    // check accessors against loaded buffer data
}

// ImportConfig controls how external buffers and images are fetched.
type ImportConfig struct {
	AllowExternal bool  `yaml:"allow_external"` // follow relative file URIs
	AllowDataURI  bool  `yaml:"allow_data_uri"` // decode base64 data: URIs
	MaxBufferMB   int64 `yaml:"max_buffer_mb"`  // 0 disables the limit
	Cache         bool  `yaml:"cache"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	Indent     bool   `yaml:"indent"`      // pretty-print JSON written by unpack
	BinaryName string `yaml:"binary_name"` // buffer file name used by unpack; empty derives it
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{
			Level:   "complete",
			Buffers: true,
		},
		Import: ImportConfig{
			AllowExternal: true,
			AllowDataURI:  true,
			MaxBufferMB:   1024,
			Cache:         true,
		},
		Output: OutputConfig{
			Indent: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// MaxBufferBytes returns the buffer size limit in bytes, or 0 for none.
func (c ImportConfig) MaxBufferBytes() int64 {
	return c.MaxBufferMB << 20
}

// ParsedLevel returns the configured validation level.
func (c ValidationConfig) ParsedLevel() (gltf.ValidationLevel, error) {
	return gltf.ParseValidationLevel(c.Level)
}
