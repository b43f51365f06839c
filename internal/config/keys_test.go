package config

import (
	"errors"
	"testing"
)

func TestGetAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		litmapEnv  string
		config     string
		useBedrock bool
		want       string
		wantErr    error
	}{
		{name: "environment wins", env: "sk-ant-env-key", config: "sk-ant-config-key", want: "sk-ant-env-key"},
		{name: "litmap variable", litmapEnv: "sk-ant-litmap-key", config: "sk-ant-config-key", want: "sk-ant-litmap-key"},
		{name: "anthropic variable beats litmap variable", env: "sk-ant-env-key", litmapEnv: "sk-ant-litmap-key", want: "sk-ant-env-key"},
		{name: "from config", config: "sk-ant-config-key", want: "sk-ant-config-key"},
		{name: "config reference expands", config: "${LITMAP_TEST_KEY}", want: "sk-ant-referenced"},
		{name: "unresolved reference", config: "${LITMAP_MISSING_KEY}", wantErr: ErrNoAPIKey},
		{name: "bedrock has no key", useBedrock: true, wantErr: ErrNoAPIKey},
		{name: "no key configured", wantErr: ErrNoAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", tt.env)
			t.Setenv("LITMAP_TEXTGEN_API_KEY", tt.litmapEnv)
			t.Setenv("LITMAP_TEST_KEY", "sk-ant-referenced")

			cfg := &Config{TextGen: TextGenConfig{APIKey: tt.config, UseBedrock: tt.useBedrock}}
			key, err := GetAPIKey(cfg)
			if err != tt.wantErr {
				t.Fatalf("GetAPIKey() error = %v, want %v", err, tt.wantErr)
			}
			if key != tt.want {
				t.Errorf("GetAPIKey() = %q, want %q", key, tt.want)
			}
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid key", "sk-ant-REDACTED", nil},
		{"empty key", "", ErrNoAPIKey},
		{"wrong prefix", "sk-openai-12345678901234567890", ErrInvalidAPIKey},
		{"too short", "sk-ant-abc", ErrInvalidAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAPIKey() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAPIKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"valid key", "sk-ant-REDACTED", "sk-ant-...wxyz"},
		{"empty key", "", "(not set)"},
		{"short key", "short", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.key); got != tt.expected {
				t.Errorf("MaskAPIKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetAPIKeySource(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		config     string
		useBedrock bool
		want       KeySource
	}{
		{"from environment", "test-key", "", false, KeySourceEnv},
		{"from config", "", "sk-ant-config-key", false, KeySourceConfig},
		{"config key beats bedrock", "", "sk-ant-config-key", true, KeySourceConfig},
		{"bedrock", "", "", true, KeySourceBedrock},
		{"no key", "", "", false, KeySourceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", tt.env)
			t.Setenv("LITMAP_TEXTGEN_API_KEY", "")

			source := GetAPIKeySource(&Config{TextGen: TextGenConfig{APIKey: tt.config, UseBedrock: tt.useBedrock}})
			if source != tt.want {
				t.Errorf("GetAPIKeySource() = %v, want %v", source, tt.want)
			}
		})
	}
}
