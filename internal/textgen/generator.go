package textgen

import (
	"context"
	"errors"
	"strings"
)

// ErrNoCredentials is returned by NewClient when no API key is available.
var ErrNoCredentials = errors.New("ANTHROPIC_API_KEY environment variable is not set")

const (
	// UnconfiguredText is returned by every call when no credentials exist.
	UnconfiguredText = "(text generation not configured; using static data only)"
	// failurePrefix starts every failure marker.
	failurePrefix = "(text generation failed: "
)

// Generator is a single blocking text-generation call. Implementations never
// fail: problems are reported as marker text so callers can treat degraded
// enrichment like any other text.
type Generator interface {
	Generate(ctx context.Context, system, user string, maxTokens int) string
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, system, user string, maxTokens int) string

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, system, user string, maxTokens int) string {
	return f(ctx, system, user, maxTokens)
}

// Unconfigured is the Generator used when no credentials are configured.
type Unconfigured struct{}

// Generate returns UnconfiguredText.
func (Unconfigured) Generate(context.Context, string, string, int) string {
	return UnconfiguredText
}

// FailureText formats err as a failure marker.
func FailureText(err error) string {
	return failurePrefix + err.Error() + ")"
}

// Failed reports whether text is a failure marker.
func Failed(text string) bool {
	return strings.HasPrefix(text, failurePrefix)
}

// Degraded reports whether text carries no generated content.
func Degraded(text string) bool {
	return text == UnconfiguredText || Failed(text)
}

// New returns a Client for cfg, or Unconfigured when no credentials are
// available. Any other construction error is returned.
func New(cfg ClientConfig) (Generator, error) {
	client, err := NewClient(cfg)
	if errors.Is(err, ErrNoCredentials) {
		if cfg.Logger != nil {
			cfg.Logger.Warn("no text-generation credentials; enrichment disabled")
		}
		return Unconfigured{}, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

var (
	_ Generator = (*Client)(nil)
	_ Generator = Unconfigured{}
	_ Generator = GeneratorFunc(nil)
)
