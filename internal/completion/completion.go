// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion assembles prompts and calls the inference backend.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// Message is a single turn in the assembled conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// systemInstruction is the fixed system turn prepended to every query.
const systemInstruction = "You are a helpful AI assistant."

// Fixed few-shot exchange included before the real user turn. The pair
// anchors the reply register and is identical on every call.
const (
	fewShotUser      = "Can you provide ways to eat combinations of bananas and dragonfruits?"
	fewShotAssistant = "Sure! Here are some ways to eat bananas and dragonfruits together: " +
		"1. Banana and dragonfruit smoothie: Blend bananas and dragonfruits together with some milk and honey. " +
		"2. Banana and dragonfruit salad: Mix sliced bananas and dragonfruits together with some lemon juice and honey."
)

// AssemblePrompt builds the conversation for one query: the few-shot
// exchange followed by a user turn whose content is the document
// context and the user query concatenated with no separator.
func AssemblePrompt(docContext, userQuery string) []Message {
	return []Message{
		{Role: "user", Content: fewShotUser},
		{Role: "assistant", Content: fewShotAssistant},
		{Role: "user", Content: docContext + userQuery},
	}
}

// Backend is a single-shot text completion service. Implementations
// return only the newly generated continuation, never the echoed prompt.
type Backend interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test
// substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API. Calls are deterministic:
// temperature 0, no sampling.
type ClaudeBackend struct {
	Config types.CompletionConfig
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []Message `json:"messages"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends the conversation and returns the generated text.
func (c *ClaudeBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	maxTokens := c.Config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	reqBody := claudeRequest{
		Model:       c.Config.Model,
		MaxTokens:   maxTokens,
		Temperature: 0,
		System:      systemInstruction,
		Messages:    messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.Config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in completion response")
}
