// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func TestAssemblePrompt(t *testing.T) {
	messages := AssemblePrompt("CONTEXT. ", "What are the findings?")

	if len(messages) != 3 {
		t.Fatalf("len(messages) = %d, want few-shot pair plus user turn", len(messages))
	}
	if messages[0].Role != "user" || messages[1].Role != "assistant" || messages[2].Role != "user" {
		t.Errorf("roles = %s/%s/%s, want user/assistant/user",
			messages[0].Role, messages[1].Role, messages[2].Role)
	}
	if messages[0].Content != fewShotUser || messages[1].Content != fewShotAssistant {
		t.Error("few-shot exchange must be included verbatim")
	}
	if want := "CONTEXT. What are the findings?"; messages[2].Content != want {
		t.Errorf("final turn = %q, want context and query concatenated", messages[2].Content)
	}
}

func TestAssemblePromptEmptyContext(t *testing.T) {
	messages := AssemblePrompt("", "query only")
	if messages[2].Content != "query only" {
		t.Errorf("final turn = %q", messages[2].Content)
	}
}

func serveClaude(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = old })
}

func TestClaudeBackendComplete(t *testing.T) {
	var gotBody claudeRequest
	var gotAPIKey, gotVersion string
	serveClaude(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"The papers agree."}]}`))
	})

	backend := &ClaudeBackend{
		Config: types.CompletionConfig{
			Model:  "claude-sonnet-4-5-20250929",
			APIKey: "ak_test",
		},
	}

	reply, err := backend.Complete(context.Background(), AssemblePrompt("ctx ", "q"))
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "The papers agree." {
		t.Errorf("reply = %q", reply)
	}

	if gotAPIKey != "ak_test" {
		t.Errorf("x-api-key = %q", gotAPIKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotBody.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if gotBody.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want default 500", gotBody.MaxTokens)
	}
	if gotBody.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", gotBody.Temperature)
	}
	if gotBody.System != systemInstruction {
		t.Errorf("system = %q", gotBody.System)
	}
	if len(gotBody.Messages) != 3 {
		t.Errorf("len(messages) = %d, want 3", len(gotBody.Messages))
	}
}

func TestClaudeBackendTemperatureOnWire(t *testing.T) {
	// Temperature 0 must be serialized explicitly, not omitted.
	var raw map[string]json.RawMessage
	serveClaude(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	})

	backend := &ClaudeBackend{Config: types.CompletionConfig{Model: "m", APIKey: "k"}}
	if _, err := backend.Complete(context.Background(), AssemblePrompt("", "q")); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if _, ok := raw["temperature"]; !ok {
		t.Error("temperature field missing from request body")
	}
}

func TestClaudeBackendMaxTokensOverride(t *testing.T) {
	var gotBody claudeRequest
	serveClaude(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	})

	backend := &ClaudeBackend{Config: types.CompletionConfig{Model: "m", APIKey: "k", MaxTokens: 42}}
	if _, err := backend.Complete(context.Background(), AssemblePrompt("", "q")); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if gotBody.MaxTokens != 42 {
		t.Errorf("max_tokens = %d, want 42", gotBody.MaxTokens)
	}
}

func TestClaudeBackendAPIError(t *testing.T) {
	serveClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid model"}}`))
	})

	backend := &ClaudeBackend{Config: types.CompletionConfig{Model: "bad", APIKey: "k"}}
	_, err := backend.Complete(context.Background(), AssemblePrompt("", "q"))
	if err == nil {
		t.Fatal("Complete() error = nil, want API error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "invalid model") {
		t.Errorf("error %q should carry status and response body", err)
	}
}

func TestClaudeBackendNoTextContent(t *testing.T) {
	serveClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})

	backend := &ClaudeBackend{Config: types.CompletionConfig{Model: "m", APIKey: "k"}}
	if _, err := backend.Complete(context.Background(), AssemblePrompt("", "q")); err == nil {
		t.Error("Complete() error = nil for empty content, want error")
	}
}

func TestClaudeBackendRetriesOverload(t *testing.T) {
	var calls int
	serveClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"recovered"}]}`))
	})

	backend := &ClaudeBackend{Config: types.CompletionConfig{Model: "m", APIKey: "k", MaxRetries: 3}}
	reply, err := backend.Complete(context.Background(), AssemblePrompt("", "q"))
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "recovered" {
		t.Errorf("reply = %q", reply)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want retry after 503", calls)
	}
}
