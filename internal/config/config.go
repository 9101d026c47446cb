// Package config loads Lorekeep configuration from lorekeep.yaml with
// LOREKEEP_* environment overrides. File and environment are both
// optional; defaults alone produce a working setup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lorekeep/lorekeep/internal/integrity"
)

// DefaultPath is where Load looks when no explicit config path is given.
const DefaultPath = "lorekeep.yaml"

// Config is the full tool configuration.
type Config struct {
	// DBPath is the SQLite database file path.
	// Default: ".lorekeep/lorekeep.db"
	DBPath string `yaml:"db_path"`

	// Scoring is the canonical-selection policy. Defaults reproduce the
	// decisions of prior cleanup runs.
	Scoring integrity.Weights `yaml:"scoring"`

	// AuditFanOut bounds concurrent collection listings during an audit.
	// Default: 4
	AuditFanOut int `yaml:"audit_fan_out"`

	// DeleteRatePerSec paces cleanup deletions. 0 disables pacing.
	DeleteRatePerSec float64 `yaml:"delete_rate_per_sec"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DBPath:      ".lorekeep/lorekeep.db",
		Scoring:     integrity.DefaultWeights(),
		AuditFanOut: 4,
	}
}

// Validate checks if the configuration has valid values
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.AuditFanOut < 1 {
		return fmt.Errorf("audit_fan_out must be at least 1 (got %d)", c.AuditFanOut)
	}
	if c.AuditFanOut > 64 {
		return fmt.Errorf("audit_fan_out too large (got %d, max 64)", c.AuditFanOut)
	}
	if c.DeleteRatePerSec < 0 {
		return fmt.Errorf("delete_rate_per_sec cannot be negative (got %g)", c.DeleteRatePerSec)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, Scoring: %s, AuditFanOut: %d, DeleteRate: %g}",
		c.DBPath, c.Scoring, c.AuditFanOut, c.DeleteRatePerSec)
}

// Load builds the configuration in precedence order: defaults, then the
// YAML file at path (missing file is fine when path is the default), then
// environment overrides.
//
// Environment variables:
//   - LOREKEEP_DB_PATH: SQLite database path
//   - LOREKEEP_AUDIT_FAN_OUT: concurrent audit listings (default: 4)
//   - LOREKEEP_DELETE_RATE: paced deletions per second (default: unlimited)
//   - LOREKEEP_SCORE_*: scoring weights (see integrity.WeightsFromEnv)
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LOREKEEP_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if err := parseEnvInt("LOREKEEP_AUDIT_FAN_OUT", &c.AuditFanOut); err != nil {
		return err
	}
	if err := parseEnvFloat("LOREKEEP_DELETE_RATE", &c.DeleteRatePerSec); err != nil {
		return err
	}

	weights, err := integrity.WeightsFromEnv()
	if err != nil {
		return err
	}
	// WeightsFromEnv starts from defaults; only fields actually set in
	// the environment should override the file.
	if os.Getenv("LOREKEEP_SCORE_RECENCY_CAP") != "" {
		c.Scoring.RecencyCap = weights.RecencyCap
	}
	if os.Getenv("LOREKEEP_SCORE_RECENCY_DIVISOR") != "" {
		c.Scoring.RecencyDivisor = weights.RecencyDivisor
	}
	if os.Getenv("LOREKEEP_SCORE_FIELD_WEIGHT") != "" {
		c.Scoring.FieldWeight = weights.FieldWeight
	}
	if os.Getenv("LOREKEEP_SCORE_RELATIONSHIP_WEIGHT") != "" {
		c.Scoring.RelationshipWeight = weights.RelationshipWeight
	}
	return nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
