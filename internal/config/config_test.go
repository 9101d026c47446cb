package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/integrity"
)

// chdir is t.Chdir for toolchains older than Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(oldwd))
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lorekeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Point at an empty directory so no lorekeep.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".lorekeep/lorekeep.db", cfg.DBPath)
	assert.Equal(t, integrity.DefaultWeights(), cfg.Scoring)
	assert.Equal(t, 4, cfg.AuditFanOut)
	assert.Zero(t, cfg.DeleteRatePerSec)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/lorekeep/camp.db
audit_fan_out: 8
delete_rate_per_sec: 25
scoring:
  recency_cap: 1000
  recency_divisor: 1000000
  field_weight: 20
  relationship_weight: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lorekeep/camp.db", cfg.DBPath)
	assert.Equal(t, 8, cfg.AuditFanOut)
	assert.Equal(t, 25.0, cfg.DeleteRatePerSec)
	assert.Equal(t, 20.0, cfg.Scoring.FieldWeight)
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
db_path: from-file.db
scoring:
  field_weight: 20
`)
	t.Setenv("LOREKEEP_DB_PATH", "from-env.db")
	t.Setenv("LOREKEEP_SCORE_RELATIONSHIP_WEIGHT", "9")
	t.Setenv("LOREKEEP_AUDIT_FAN_OUT", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.AuditFanOut)
	// Env override applies only to the variables actually set; the file's
	// field_weight survives.
	assert.Equal(t, 20.0, cfg.Scoring.FieldWeight)
	assert.Equal(t, 9.0, cfg.Scoring.RelationshipWeight)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LOREKEEP_AUDIT_FAN_OUT", "many")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOREKEEP_AUDIT_FAN_OUT")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "db_path: [not: a: string")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }, "db_path"},
		{"zero fan out", func(c *Config) { c.AuditFanOut = 0 }, "audit_fan_out"},
		{"huge fan out", func(c *Config) { c.AuditFanOut = 128 }, "audit_fan_out"},
		{"negative delete rate", func(c *Config) { c.DeleteRatePerSec = -1 }, "delete_rate_per_sec"},
		{"bad scoring", func(c *Config) { c.Scoring.RecencyDivisor = 0 }, "scoring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}

	assert.NoError(t, Default().Validate())
}
