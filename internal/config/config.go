// Package config handles configuration loading and management for litmap.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName           = "litmap"
	projectConfigName = ".litmap.yaml"
)

// Config holds all configuration for litmap.
type Config struct {
	TextGen      TextGenConfig      `mapstructure:"textgen"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Librarian    LibrarianConfig    `mapstructure:"librarian"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Server       ServerConfig       `mapstructure:"server"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// TextGenConfig holds text-generation service settings.
type TextGenConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UseBedrock bool          `mapstructure:"use_bedrock"`
	AWSRegion  string        `mapstructure:"aws_region"`
	AWSProfile string        `mapstructure:"aws_profile"`
}

// OrchestratorConfig holds fan-out settings.
type OrchestratorConfig struct {
	MaxWorkers         int           `mapstructure:"max_workers"`
	TaskTimeout        time.Duration `mapstructure:"task_timeout"`
	SynthesisMaxTokens int           `mapstructure:"synthesis_max_tokens"`
}

// LibrarianConfig holds book-catalog service settings.
type LibrarianConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	CoverURL string        `mapstructure:"cover_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CatalogConfig points at a curated data file. An empty path uses the embedded data.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds HTTP transport settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

var envReplacer = strings.NewReplacer(".", "_")

// ErrUnknownKey is returned by Get and Set for keys outside the schema.
var ErrUnknownKey = errors.New("unknown config key")

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, LITMAP_*)
// 2. Project config (.litmap.yaml in current directory or parent)
// 3. User config (~/.config/litmap/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	bindEnv(v)

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.TextGen.APIKey = expandEnv(cfg.TextGen.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnv maps LITMAP_<SECTION>_<KEY> variables onto every key, plus the
// conventional ANTHROPIC_API_KEY.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("LITMAP")
	for _, key := range Keys() {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("textgen.api_key", "ANTHROPIC_API_KEY", "LITMAP_TEXTGEN_API_KEY")
	v.SetEnvKeyReplacer(envReplacer)
}

// Validate rejects values the runtime cannot honor.
func (c *Config) Validate() error {
	switch {
	case c.Orchestrator.MaxWorkers < 0:
		return fmt.Errorf("orchestrator.max_workers must not be negative, got %d", c.Orchestrator.MaxWorkers)
	case c.Orchestrator.TaskTimeout < 0:
		return fmt.Errorf("orchestrator.task_timeout must not be negative, got %s", c.Orchestrator.TaskTimeout)
	case c.TextGen.MaxTokens < 0:
		return fmt.Errorf("textgen.max_tokens must not be negative, got %d", c.TextGen.MaxTokens)
	case c.TextGen.Timeout < 0:
		return fmt.Errorf("textgen.timeout must not be negative, got %s", c.TextGen.Timeout)
	case c.Librarian.Timeout < 0:
		return fmt.Errorf("librarian.timeout must not be negative, got %s", c.Librarian.Timeout)
	}
	return nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	for key, value := range cfg.values() {
		v.Set(key, value)
	}

	return v.WriteConfig()
}

// Get returns the display form of key.
func (c *Config) Get(key string) (string, error) {
	value, ok := c.values()[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return fmt.Sprint(value), nil
}

// Set parses value into key. Durations use time.ParseDuration syntax.
func (c *Config) Set(key, value string) error {
	v := viper.New()
	for k, current := range c.values() {
		v.Set(k, current)
	}
	if _, ok := c.values()[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	v.Set(key, value)

	updated := &Config{}
	if err := v.Unmarshal(updated); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Keys lists every configurable key in sorted order.
func Keys() []string {
	values := Default().values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) values() map[string]any {
	return map[string]any{
		"textgen.api_key":                   c.TextGen.APIKey,
		"textgen.model":                     c.TextGen.Model,
		"textgen.max_tokens":                c.TextGen.MaxTokens,
		"textgen.timeout":                   c.TextGen.Timeout.String(),
		"textgen.use_bedrock":               c.TextGen.UseBedrock,
		"textgen.aws_region":                c.TextGen.AWSRegion,
		"textgen.aws_profile":               c.TextGen.AWSProfile,
		"orchestrator.max_workers":          c.Orchestrator.MaxWorkers,
		"orchestrator.task_timeout":         c.Orchestrator.TaskTimeout.String(),
		"orchestrator.synthesis_max_tokens": c.Orchestrator.SynthesisMaxTokens,
		"librarian.base_url":                c.Librarian.BaseURL,
		"librarian.cover_url":               c.Librarian.CoverURL,
		"librarian.timeout":                 c.Librarian.Timeout.String(),
		"catalog.path":                      c.Catalog.Path,
		"server.addr":                       c.Server.Addr,
		"logging.level":                     c.Logging.Level,
		"logging.development":               c.Logging.Development,
		"logging.file":                      c.Logging.File,
	}
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	for key, value := range Default().values() {
		v.SetDefault(key, value)
	}
}

// getUserConfigDir returns the XDG config directory for litmap.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// findProjectConfig searches for .litmap.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		TextGen: TextGenConfig{
			MaxTokens: 512,
			Timeout:   30 * time.Second,
		},
		Orchestrator: OrchestratorConfig{
			MaxWorkers:         3,
			TaskTimeout:        45 * time.Second,
			SynthesisMaxTokens: 512,
		},
		Librarian: LibrarianConfig{
			BaseURL:  "https://openlibrary.org/search.json",
			CoverURL: "https://covers.openlibrary.org/b/olid",
			Timeout:  10 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
