package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// apiKeyEnv lists the variables consulted for the Anthropic key, highest
// precedence first.
var apiKeyEnv = []string{"ANTHROPIC_API_KEY", "LITMAP_TEXTGEN_API_KEY"}

const (
	apiKeyPrefix    = "sk-ant-"
	apiKeyMinLength = 20
)

var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("no Anthropic API key configured")
	// ErrInvalidAPIKey is returned for keys that cannot be Anthropic keys.
	ErrInvalidAPIKey = errors.New("invalid API key format")
)

// KeySource represents where text-generation credentials come from.
type KeySource string

const (
	KeySourceEnv     KeySource = "environment"
	KeySourceConfig  KeySource = "config_file"
	KeySourceBedrock KeySource = "aws_bedrock"
	KeySourceNone    KeySource = "none"
)

// resolveAPIKey finds the key and where it came from. Unresolved ${VAR}
// references in the config file count as unset.
func resolveAPIKey(cfg *Config) (string, KeySource) {
	for _, name := range apiKeyEnv {
		if key := os.Getenv(name); key != "" {
			return key, KeySourceEnv
		}
	}
	if cfg == nil {
		return "", KeySourceNone
	}
	if key := expandEnv(cfg.TextGen.APIKey); key != "" && !strings.HasPrefix(key, "${") {
		return key, KeySourceConfig
	}
	if cfg.TextGen.UseBedrock {
		return "", KeySourceBedrock
	}
	return "", KeySourceNone
}

// GetAPIKey returns the Anthropic API key, preferring the environment over
// the config file. Bedrock deployments have no key and get ErrNoAPIKey.
func GetAPIKey(cfg *Config) (string, error) {
	key, _ := resolveAPIKey(cfg)
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// GetAPIKeySource reports where text-generation credentials come from.
func GetAPIKeySource(cfg *Config) KeySource {
	_, source := resolveAPIKey(cfg)
	return source
}

// ValidateAPIKey checks the key's shape. It does not call the API.
func ValidateAPIKey(key string) error {
	switch {
	case key == "":
		return ErrNoAPIKey
	case !strings.HasPrefix(key, apiKeyPrefix):
		return fmt.Errorf("%w: expected %q prefix", ErrInvalidAPIKey, apiKeyPrefix)
	case len(key) < apiKeyMinLength:
		return fmt.Errorf("%w: key too short", ErrInvalidAPIKey)
	}
	return nil
}

// MaskAPIKey keeps the "sk-ant-" prefix and the last 4 characters.
func MaskAPIKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 15:
		return "***"
	}
	return key[:len(apiKeyPrefix)] + "..." + key[len(key)-4:]
}
