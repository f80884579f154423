// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm implements the completion client for the chat backend.
//
// The client speaks the OpenAI-compatible chat completions shape to a
// configured base URL. It is deliberately tolerant: any transport error,
// non-2xx status, or response that does not parse into the expected shape
// is treated as the same failure and routed to the local fallback
// responder. Complete therefore never fails its caller.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/saikrishnarallabandi/judith-tui/internal/fallback"
	"github.com/saikrishnarallabandi/judith-tui/internal/model"
)

const (
	// DefaultBaseURL is the default backend address.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultModel matches the backend's default completion model.
	DefaultModel = "gpt-4o-mini"

	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 1000

	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.7

	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize limits how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// sharedHTTPClient pools connections across all completion requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// COMPLETER INTERFACE
// =============================================================================

// Completer produces an assistant reply for a conversation history.
// Implementations must always return a reply; the pipeline's failure modes
// terminate in the fallback responder, not in the caller.
type Completer interface {
	Complete(ctx context.Context, history []*model.Message) Reply
}

// Source records which path produced a reply.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceMemory   Source = "memory"
)

// Usage holds token accounting for one completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Reply is the result of a completion.
type Reply struct {
	Content string
	Usage   Usage
	Source  Source
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// wireMessage is a history entry as submitted to the endpoint: role and
// content only, ids and timestamps stripped.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body posted to the chat completions endpoint.
type chatRequest struct {
	Messages    []wireMessage `json:"messages"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the expected success shape.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the remote completion endpoint, degrading to the local
// responder on any failure. Exactly one remote attempt is made per call,
// then at most one fallback attempt, which cannot fail.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64

	httpClient *http.Client
	limiter    *rate.Limiter
	responder  *fallback.Responder
}

// NewClient creates a completion client for the given base URL.
func NewClient(baseURL string, responder *fallback.Responder) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if responder == nil {
		responder = fallback.New()
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		httpClient:  sharedHTTPClient,
		limiter:     rate.NewLimiter(rate.Every(time.Second), 5),
		responder:   responder,
	}
}

// WithModel sets the model identifier sent with each request.
func (c *Client) WithModel(m string) *Client {
	if m != "" {
		c.model = m
	}
	return c
}

// WithAPIKey sets an optional bearer token.
func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = strings.TrimSpace(key)
	return c
}

// WithSampling overrides max tokens and temperature.
func (c *Client) WithSampling(maxTokens int, temperature float64) *Client {
	if maxTokens > 0 {
		c.maxTokens = maxTokens
	}
	if temperature >= 0 {
		c.temperature = temperature
	}
	return c
}

// WithHTTPClient swaps the HTTP client. Tests use this to control timeouts.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete submits the full history to the remote endpoint and returns the
// assistant reply. On any transport or parse failure it falls back to the
// local responder; per contract it never fails.
func (c *Client) Complete(ctx context.Context, history []*model.Message) Reply {
	reply, err := c.completeRemote(ctx, history)
	if err == nil {
		return reply
	}
	log.Printf("completion request failed, using local responder: %v", err)
	return c.completeFallback(ctx, history)
}

// completeRemote performs the single remote attempt.
func (c *Client) completeRemote(ctx context.Context, history []*model.Message) (Reply, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Reply{}, fmt.Errorf("rate limiter: %w", err)
	}

	reqBody := chatRequest{
		Messages:    toWire(history),
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "judith/0.1")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return Reply{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return c.parseReply(history, body)
}

// parseReply strictly parses the response body into a Reply. Anything that
// does not match the expected shape is an error, which the caller treats
// identically to a transport failure.
func (c *Client) parseReply(history []*model.Message, body []byte) (Reply, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Reply{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Reply{}, fmt.Errorf("response contained no choices")
	}
	choice := parsed.Choices[0].Message
	if choice.Role != string(model.RoleAssistant) || choice.Content == "" {
		return Reply{}, fmt.Errorf("response choice is not an assistant message")
	}

	usage := Usage{}
	if parsed.Usage != nil {
		usage = *parsed.Usage
	}
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		usage = estimateUsage(history, choice.Content)
	}

	return Reply{Content: choice.Content, Usage: usage, Source: SourceRemote}, nil
}

// completeFallback synthesizes a reply locally from the latest user message.
func (c *Client) completeFallback(ctx context.Context, history []*model.Message) Reply {
	latest := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			latest = history[i].Content
			break
		}
	}

	content := c.responder.Respond(ctx, latest)
	return Reply{
		Content: content,
		Usage:   estimateUsage(history, content),
		Source:  SourceFallback,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// toWire strips history down to role and content.
func toWire(history []*model.Message) []wireMessage {
	wire := make([]wireMessage, 0, len(history))
	for _, msg := range history {
		wire = append(wire, wireMessage{Role: msg.Role.String(), Content: msg.Content})
	}
	return wire
}

// estimateUsage approximates token counts as ceil(characters/4), applied
// separately to the concatenated prompt text and to the completion text.
func estimateUsage(history []*model.Message, completion string) Usage {
	var prompt strings.Builder
	for _, msg := range history {
		prompt.WriteString(msg.Content)
	}

	usage := Usage{
		PromptTokens:     estimateTokens(prompt.String()),
		CompletionTokens: estimateTokens(completion),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return usage
}

// estimateTokens is the chars/4 heuristic, rounded up.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (utf8.RuneCountInString(text) + 3) / 4
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
