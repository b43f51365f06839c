package textgen

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestUsageOf(t *testing.T) {
	srv := messagesServer(t, http.StatusOK, `{
		"id": "msg_02",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"content": [{"type": "text", "text": "Fog over the Golden Gate."}],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 30, "output_tokens": 9}
	}`, nil)

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.Generate(context.Background(), "sys", "one", 0)
	client.Generate(context.Background(), "sys", "two", 0)

	u, ok := UsageOf(client)
	if !ok {
		t.Fatal("client should report usage")
	}
	want := Usage{Model: string(client.Model()), Calls: 2, InputTokens: 60, OutputTokens: 18}
	if u != want {
		t.Errorf("UsageOf = %+v, want %+v", u, want)
	}

	if _, ok := UsageOf(Unconfigured{}); ok {
		t.Error("Unconfigured should not report usage")
	}
}

func TestLogUsage(t *testing.T) {
	srv := messagesServer(t, http.StatusOK, `{
		"id": "msg_03",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"content": [{"type": "text", "text": "ok"}],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 4, "output_tokens": 2}
	}`, nil)

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.Generate(context.Background(), "sys", "user", 0)

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	LogUsage(logger, client)
	LogUsage(logger, Unconfigured{})
	LogUsage(nil, client)

	entries := logs.FilterMessage("text generation usage").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d usage entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["calls"] != int64(1) || fields["input_tokens"] != int64(4) || fields["output_tokens"] != int64(2) {
		t.Errorf("usage fields = %v", fields)
	}
}
