package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// ProjectFileName is the per-directory configuration file.
const ProjectFileName = ".seqmatch.yaml"

// Config represents the complete seqmatch configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	DataDir string        `yaml:"data_dir" json:"data_dir"`
	Sampler SamplerConfig `yaml:"sampler" json:"sampler"`
	Limits  LimitsConfig  `yaml:"limits" json:"limits"`
	History HistoryConfig `yaml:"history" json:"history"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SamplerConfig configures the resource sampler.
type SamplerConfig struct {
	// Interval between samples as a Go duration string (default: "50ms").
	Interval string `yaml:"interval" json:"interval"`
	// Capacity is the number of samples retained (default: 100).
	Capacity int `yaml:"capacity" json:"capacity"`
}

// LimitsConfig bounds input sizes before index construction.
type LimitsConfig struct {
	// MaxSequenceLength rejects longer sequences; 0 disables the check.
	// The suffix array sort is O(n² log n), so keep this modest.
	MaxSequenceLength int `yaml:"max_sequence_length" json:"max_sequence_length"`
}

// HistoryConfig configures search-history persistence.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Path to the SQLite file. Empty means <data_dir>/history.db.
	Path string `yaml:"path" json:"path"`
	// MaxItems prunes the oldest entries beyond this count; 0 keeps all.
	MaxItems int `yaml:"max_items" json:"max_items"`
}

// UIConfig configures terminal presentation.
type UIConfig struct {
	ColorScheme string `yaml:"color_scheme" json:"color_scheme"`
	Highlight   bool   `yaml:"highlight" json:"highlight"`
}

// SearchConfig configures search defaults.
type SearchConfig struct {
	DefaultAlgorithm string `yaml:"default_algorithm" json:"default_algorithm"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		DataDir: defaultDataDir(),
		Sampler: SamplerConfig{
			Interval: "50ms",
			Capacity: 100,
		},
		Limits: LimitsConfig{
			MaxSequenceLength: 100000,
		},
		History: HistoryConfig{
			Enabled:  true,
			MaxItems: 1000,
		},
		UI: UIConfig{
			ColorScheme: "default",
			Highlight:   true,
		},
		Search: SearchConfig{
			DefaultAlgorithm: string(matcher.AlgorithmFMIndex),
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// defaultDataDir returns ~/.seqmatch.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".seqmatch")
	}
	return filepath.Join(home, ".seqmatch")
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/seqmatch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/seqmatch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "seqmatch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "seqmatch", "config.yaml")
	}
	return filepath.Join(home, ".config", "seqmatch", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load loads configuration for the given directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/seqmatch/config.yaml)
//  3. Project config (.seqmatch.yaml in dir)
//  4. Environment variables (SEQMATCH_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if path := filepath.Join(dir, ProjectFileName); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML overlays the keys present in path onto c. Keys absent from the
// file keep their current values, including false booleans.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return seqerrors.New(seqerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return seqerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}
	return nil
}

// applyEnvOverrides applies SEQMATCH_* environment variable overrides.
// Malformed numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SEQMATCH_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("SEQMATCH_SAMPLER_INTERVAL"); v != "" {
		c.Sampler.Interval = v
	}
	if v := os.Getenv("SEQMATCH_SAMPLER_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sampler.Capacity = n
		}
	}
	if v := os.Getenv("SEQMATCH_MAX_SEQUENCE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Limits.MaxSequenceLength = n
		}
	}
	if v := os.Getenv("SEQMATCH_HISTORY_ENABLED"); v != "" {
		c.History.Enabled = parseBool(v)
	}
	if v := os.Getenv("SEQMATCH_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("SEQMATCH_COLOR_SCHEME"); v != "" {
		c.UI.ColorScheme = v
	}
	if v := os.Getenv("SEQMATCH_ALGORITHM"); v != "" {
		c.Search.DefaultAlgorithm = v
	}
	if v := os.Getenv("SEQMATCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// Validate checks the configuration and returns a structured config error.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return seqerrors.ConfigError(fmt.Sprintf(format, args...), nil).
			WithSuggestion("Fix the value in " + ProjectFileName + " or " + GetUserConfigPath())
	}

	d, err := time.ParseDuration(c.Sampler.Interval)
	if err != nil || d <= 0 {
		return invalid("sampler.interval must be a positive duration, got %q", c.Sampler.Interval)
	}
	if c.Sampler.Capacity <= 0 {
		return invalid("sampler.capacity must be positive, got %d", c.Sampler.Capacity)
	}
	if c.Limits.MaxSequenceLength < 0 {
		return invalid("limits.max_sequence_length must be non-negative, got %d", c.Limits.MaxSequenceLength)
	}
	if c.History.MaxItems < 0 {
		return invalid("history.max_items must be non-negative, got %d", c.History.MaxItems)
	}
	if _, err := matcher.ParseAlgorithm(c.Search.DefaultAlgorithm); err != nil {
		return invalid("search.default_algorithm must be 'suffix' or 'fm', got %q", c.Search.DefaultAlgorithm)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Logging.Level)
	}
	return nil
}

// SamplerInterval returns the parsed sampler interval, or 50ms if invalid.
func (c *Config) SamplerInterval() time.Duration {
	d, err := time.ParseDuration(c.Sampler.Interval)
	if err != nil || d <= 0 {
		return 50 * time.Millisecond
	}
	return d
}

// Algorithm returns the configured default algorithm.
func (c *Config) Algorithm() matcher.Algorithm {
	alg, err := matcher.ParseAlgorithm(c.Search.DefaultAlgorithm)
	if err != nil {
		return matcher.AlgorithmFMIndex
	}
	return alg
}

// HistoryPath returns the history database path.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.DataDir, "history.db")
}

// WriteYAML writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
