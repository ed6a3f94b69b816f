// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when no --config
// flag is given.
const EnvironmentVariable = "ZKCODEC_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local work on schemas and fixtures.
	Development Environment = "development"
	// Production is for pipelines that pack and unpack records.
	Production Environment = "production"
)

// Config is the master configuration for zkcodec.
type Config struct {
	// Environment identifies the deployment type (development, production).
	Environment Environment `yaml:"environment"`

	// Schema locates the schema file that declares custom types.
	Schema SchemaConfig `yaml:"schema"`

	// Ledger selects the algorithms the builtin ledger codecs use.
	Ledger LedgerConfig `yaml:"ledger"`

	// Output configures how encoded bytes are written.
	Output OutputConfig `yaml:"output"`

	// Logging configures the command logger.
	Logging LoggingConfig `yaml:"logging"`

	// Environment-specific overrides, applied after the base config
	// is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Schema  *SchemaConfig  `yaml:"schema,omitempty"`
	Output  *OutputConfig  `yaml:"output,omitempty"`
	Logging *LoggingConfig `yaml:"logging,omitempty"`
}

// SchemaConfig locates the schema file.
type SchemaConfig struct {
	// Path is a JSONC or YAML schema file. Empty means only the
	// builtin ledger types are available.
	Path string `yaml:"path"`
}

// LedgerConfig selects ledger codec algorithms. Every hash and public
// key encoded by one configuration has the same size, so files written
// under one configuration cannot be read under another.
type LedgerConfig struct {
	// DigestAlgorithm names the hash algorithm for secure hashes.
	// Default: SHA-256
	DigestAlgorithm string `yaml:"digest_algorithm"`

	// SignatureScheme names the scheme for public keys.
	// Default: EDDSA_ED25519_SHA512
	SignatureScheme string `yaml:"signature_scheme"`
}

// OutputConfig configures encoded output.
type OutputConfig struct {
	// Encoding is how `encode` prints bytes: hex, base64, or raw.
	// Default: hex
	Encoding string `yaml:"encoding"`

	// Compression is the record file body compression used by `pack`:
	// none, lz4, or zstd.
	// Default: lz4
	Compression string `yaml:"compression"`
}

// LoggingConfig configures the command logger.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info (development), warn (production)
	Level string `yaml:"level"`
}

// Default returns the default configuration, used as the base before
// a file is loaded and on its own when no file is configured.
func Default() *Config {
	return &Config{
		Environment: Development,
		Ledger: LedgerConfig{
			DigestAlgorithm: "SHA-256",
			SignatureScheme: "EDDSA_ED25519_SHA512",
		},
		Output: OutputConfig{
			Encoding:    "hex",
			Compression: "lz4",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by ZKCODEC_CONFIG, or
// returns [Default] when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current
// config. Unknown keys are errors so typos do not silently fall back
// to defaults.
func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: quieter logging.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Logging: &LoggingConfig{Level: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Schema != nil && overrides.Schema.Path != "" {
		c.Schema.Path = overrides.Schema.Path
	}

	if overrides.Output != nil {
		if overrides.Output.Encoding != "" {
			c.Output.Encoding = overrides.Output.Encoding
		}
		if overrides.Output.Compression != "" {
			c.Output.Compression = overrides.Output.Compression
		}
	}

	if overrides.Logging != nil && overrides.Logging.Level != "" {
		c.Logging.Level = overrides.Logging.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":         os.Getenv("HOME"),
		"ZKCODEC_ROOT": os.Getenv("ZKCODEC_ROOT"),
	}
	c.Schema.Path = expandVars(c.Schema.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Algorithm names are
// checked against the registries by the caller that builds codecs.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Ledger.DigestAlgorithm == "" {
		errs = append(errs, errors.New("ledger.digest_algorithm is required"))
	}
	if c.Ledger.SignatureScheme == "" {
		errs = append(errs, errors.New("ledger.signature_scheme is required"))
	}

	encodings := []string{"hex", "base64", "raw"}
	if !slices.Contains(encodings, c.Output.Encoding) {
		errs = append(errs, fmt.Errorf("output.encoding must be one of: %v", encodings))
	}
	compressions := []string{"none", "lz4", "zstd"}
	if !slices.Contains(compressions, c.Output.Compression) {
		errs = append(errs, fmt.Errorf("output.compression must be one of: %v", compressions))
	}
	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", levels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
