package textgen

import "go.uber.org/zap"

// Usage is the token accounting of one generator.
type Usage struct {
	Model        string `json:"model"`
	Calls        int    `json:"calls"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// usageReporter is implemented by generators that account for tokens.
type usageReporter interface {
	Usage() Usage
}

// Usage returns the tokens spent by successful calls so far.
func (c *Client) Usage() Usage {
	in, out := c.tracker.Total()
	return Usage{
		Model:        string(c.Model()),
		Calls:        c.tracker.Calls(),
		InputTokens:  in,
		OutputTokens: out,
	}
}

// UsageOf returns gen's token usage. ok is false for generators that do not
// track any, such as Unconfigured.
func UsageOf(gen Generator) (u Usage, ok bool) {
	r, ok := gen.(usageReporter)
	if !ok {
		return Usage{}, false
	}
	return r.Usage(), true
}

// LogUsage logs gen's token usage. Generators without accounting log nothing.
func LogUsage(logger *zap.Logger, gen Generator) {
	u, ok := UsageOf(gen)
	if !ok || logger == nil {
		return
	}
	logger.Info("text generation usage",
		zap.String("model", u.Model),
		zap.Int("calls", u.Calls),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens))
}
