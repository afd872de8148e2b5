package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// isolate points the user config at an empty temp dir so the developer's
// own config never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	return xdg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// =============================================================================
// Defaults
// =============================================================================

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "50ms", cfg.Sampler.Interval)
	assert.Equal(t, 100, cfg.Sampler.Capacity)
	assert.Equal(t, 100000, cfg.Limits.MaxSequenceLength)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 1000, cfg.History.MaxItems)
	assert.Equal(t, "default", cfg.UI.ColorScheme)
	assert.True(t, cfg.UI.Highlight)
	assert.Equal(t, "fm", cfg.Search.DefaultAlgorithm)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.DataDir, ".seqmatch")
	assert.NoError(t, cfg.Validate())
}

func TestConfig_DerivedValues(t *testing.T) {
	cfg := NewConfig()
	cfg.DataDir = "/data"

	assert.Equal(t, 50*time.Millisecond, cfg.SamplerInterval())
	assert.Equal(t, matcher.AlgorithmFMIndex, cfg.Algorithm())
	assert.Equal(t, filepath.Join("/data", "history.db"), cfg.HistoryPath())

	cfg.History.Path = "/elsewhere/h.db"
	assert.Equal(t, "/elsewhere/h.db", cfg.HistoryPath())

	cfg.Sampler.Interval = "garbage"
	assert.Equal(t, 50*time.Millisecond, cfg.SamplerInterval())
}

// =============================================================================
// Loading
// =============================================================================

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, NewConfig().Sampler, cfg.Sampler)
}

func TestLoad_ProjectFile_OverridesOnlyPresentKeys(t *testing.T) {
	// Given: a project file that disables history and highlight
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), `
history:
  enabled: false
ui:
  highlight: false
sampler:
  interval: 10ms
`)

	// When: loading
	cfg, err := Load(dir)

	// Then: present keys override, others keep defaults
	require.NoError(t, err)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.UI.Highlight)
	assert.Equal(t, 10*time.Millisecond, cfg.SamplerInterval())
	assert.Equal(t, 100, cfg.Sampler.Capacity)
	assert.Equal(t, 1000, cfg.History.MaxItems)
	assert.Equal(t, "default", cfg.UI.ColorScheme)
}

func TestLoad_InvalidYaml_ReturnsConfigError(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "sampler: [unclosed")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Equal(t, seqerrors.ErrCodeConfigInvalid, seqerrors.GetCode(err))
}

func TestLoad_InvalidFieldType_ReturnsError(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "sampler:\n  capacity: lots\n")

	_, err := Load(dir)

	assert.Error(t, err)
}

func TestLoad_UserThenProjectThenEnv(t *testing.T) {
	// Given: user config sets scheme and algorithm
	xdg := isolate(t)
	writeFile(t, filepath.Join(xdg, "seqmatch", "config.yaml"), `
ui:
  color_scheme: forest
search:
  default_algorithm: suffix
limits:
  max_sequence_length: 500
`)

	// And: project config overrides the scheme
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "ui:\n  color_scheme: sunset\n")

	// And: env overrides the limit
	t.Setenv("SEQMATCH_MAX_SEQUENCE_LENGTH", "42")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "sunset", cfg.UI.ColorScheme)
	assert.Equal(t, matcher.AlgorithmSuffixArray, cfg.Algorithm())
	assert.Equal(t, 42, cfg.Limits.MaxSequenceLength)
}

func TestLoad_InvalidUserConfig_ReturnsError(t *testing.T) {
	xdg := isolate(t)
	writeFile(t, filepath.Join(xdg, "seqmatch", "config.yaml"), "sampler: [\n")

	_, err := Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "user config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SEQMATCH_DATA_DIR", "/tmp/seqdata")
	t.Setenv("SEQMATCH_SAMPLER_INTERVAL", "20ms")
	t.Setenv("SEQMATCH_SAMPLER_CAPACITY", "7")
	t.Setenv("SEQMATCH_HISTORY_ENABLED", "0")
	t.Setenv("SEQMATCH_HISTORY_PATH", "/tmp/h.db")
	t.Setenv("SEQMATCH_COLOR_SCHEME", "midnight")
	t.Setenv("SEQMATCH_ALGORITHM", "sa")
	t.Setenv("SEQMATCH_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "/tmp/seqdata", cfg.DataDir)
	assert.Equal(t, 20*time.Millisecond, cfg.SamplerInterval())
	assert.Equal(t, 7, cfg.Sampler.Capacity)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/h.db", cfg.HistoryPath())
	assert.Equal(t, "midnight", cfg.UI.ColorScheme)
	assert.Equal(t, matcher.AlgorithmSuffixArray, cfg.Algorithm())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MalformedNumericEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("SEQMATCH_SAMPLER_CAPACITY", "many")
	t.Setenv("SEQMATCH_MAX_SEQUENCE_LENGTH", "-3")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Sampler.Capacity)
	assert.Equal(t, 100000, cfg.Limits.MaxSequenceLength)
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad interval", func(c *Config) { c.Sampler.Interval = "soon" }},
		{"zero interval", func(c *Config) { c.Sampler.Interval = "0s" }},
		{"zero capacity", func(c *Config) { c.Sampler.Capacity = 0 }},
		{"negative limit", func(c *Config) { c.Limits.MaxSequenceLength = -1 }},
		{"negative max items", func(c *Config) { c.History.MaxItems = -1 }},
		{"unknown algorithm", func(c *Config) { c.Search.DefaultAlgorithm = "kmp" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, seqerrors.ErrCodeConfigInvalid, seqerrors.GetCode(err))
		})
	}
}

// =============================================================================
// Paths and writing
// =============================================================================

func TestGetUserConfigPath_RespectsXDGConfigHome(t *testing.T) {
	xdg := isolate(t)

	assert.Equal(t, filepath.Join(xdg, "seqmatch", "config.yaml"), GetUserConfigPath())
	assert.False(t, UserConfigExists())

	writeFile(t, GetUserConfigPath(), "version: 1\n")
	assert.True(t, UserConfigExists())
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.UI.ColorScheme = "forest"
	cfg.History.Enabled = false

	require.NoError(t, cfg.WriteYAML(filepath.Join(dir, ProjectFileName)))
	loaded, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "forest", loaded.UI.ColorScheme)
	assert.False(t, loaded.History.Enabled)
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)

	// Missing file: nothing to back up
	backup, err := BackupFile(path)
	require.NoError(t, err)
	assert.Empty(t, backup)

	writeFile(t, path, "version: 1\n")
	for i := 0; i < MaxBackups+2; i++ {
		backup, err = BackupFile(path)
		require.NoError(t, err)
		require.NotEmpty(t, backup)
		time.Sleep(2 * time.Millisecond)
	}

	backups, err := ListBackups(path)
	require.NoError(t, err)
	assert.Len(t, backups, MaxBackups)
	assert.Equal(t, backup, backups[0], "newest backup first")

	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))
}
