package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewClient_WithAPIKey(t *testing.T) {
	client, err := NewClient(ClientConfig{
		APIKey: "test-key-123",
		Model:  anthropic.ModelClaudeSonnet4_20250514,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("Model = %q, want %q", client.Model(), anthropic.ModelClaudeSonnet4_20250514)
	}
	if u := client.Usage(); u.Calls != 0 {
		t.Errorf("new client has usage %+v", u)
	}
}

func TestNewClient_WithEnvVar(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-test-key")

	if _, err := NewClient(ClientConfig{}); err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
}

func TestNewClient_NoAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewClient(ClientConfig{})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("NewClient error = %v, want ErrNoCredentials", err)
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("Default model = %q, want %q", client.Model(), anthropic.ModelClaudeSonnet4_20250514)
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514)
	if got != "us.anthropic.claude-sonnet-4-20250514-v1:0" {
		t.Errorf("translated model = %q", got)
	}

	custom := anthropic.Model("us.anthropic.custom-v1:0")
	if translateModelForBedrock(custom) != custom {
		t.Error("unknown models should pass through unchanged")
	}
}

func TestNew_FallsBackToUnconfigured(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	gen, err := New(ClientConfig{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := gen.(Unconfigured); !ok {
		t.Fatalf("New returned %T, want Unconfigured", gen)
	}

	text := gen.Generate(context.Background(), "sys", "user", 10)
	if text != UnconfiguredText {
		t.Errorf("Generate = %q, want %q", text, UnconfiguredText)
	}
	if !Degraded(text) {
		t.Error("unconfigured text should be degraded")
	}
	if Failed(text) {
		t.Error("unconfigured text is not a failure")
	}
}

// messagesServer fakes the Anthropic messages endpoint.
func messagesServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Generate(t *testing.T) {
	var seen map[string]any
	srv := messagesServer(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"content": [
			{"type": "text", "text": "Jazz spilled "},
			{"type": "text", "text": "onto Lenox Avenue."}
		],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 12, "output_tokens": 7}
	}`, &seen)

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	got := client.Generate(context.Background(), "be vivid", "describe Harlem", 0)
	if got != "Jazz spilled onto Lenox Avenue." {
		t.Errorf("Generate = %q", got)
	}

	if seen["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("max_tokens = %v, want %d", seen["max_tokens"], DefaultMaxTokens)
	}

	u := client.Usage()
	if u.InputTokens != 12 || u.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d, want 12/7", u.InputTokens, u.OutputTokens)
	}
	if u.Calls != 1 {
		t.Errorf("Calls = %d, want 1", u.Calls)
	}
}

func TestClient_GenerateFailureIsText(t *testing.T) {
	srv := messagesServer(t, http.StatusInternalServerError,
		`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`, nil)

	client, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	got := client.Generate(context.Background(), "sys", "user", 64)
	if !Failed(got) {
		t.Errorf("Generate = %q, want failure marker", got)
	}
	if calls := client.Usage().Calls; calls != 0 {
		t.Errorf("failed calls should not be tracked, got %d", calls)
	}
}

func TestTokenTracker_AddMultiple(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(100, 50)
	tracker.Add(200, 100)
	tracker.Add(50, 25)

	input, output := tracker.Total()
	if input != 350 {
		t.Errorf("Input tokens = %d, want 350", input)
	}
	if output != 175 {
		t.Errorf("Output tokens = %d, want 175", output)
	}
	if tracker.Calls() != 3 {
		t.Errorf("Calls = %d, want 3", tracker.Calls())
	}
}

func TestFailureText(t *testing.T) {
	text := FailureText(errors.New("connection refused"))
	if !Failed(text) {
		t.Errorf("Failed(%q) = false", text)
	}
	if !strings.Contains(text, "connection refused") {
		t.Errorf("failure text %q should carry the cause", text)
	}
	if Failed("A perfectly normal narrative.") {
		t.Error("normal text reported as failure")
	}
}
