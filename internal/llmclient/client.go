// Package llmclient talks to a local Ollama daemon for terse's optional
// smart path: a health check against /api/tags, and a condensation call
// against /api/chat.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benwelker/terse/internal/config"
)

// Client is a minimal Ollama HTTP client scoped to terse's two calls:
// health checks and non-streaming chat completions.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New builds a Client from cfg, rewriting a "localhost" base URL to
// "127.0.0.1" — some sandboxed environments resolve localhost to ::1 with
// no listener bound, while 127.0.0.1 always reaches a loopback daemon.
func New(cfg config.LLMConfig) *Client {
	return &Client{
		baseURL:    rewriteLocalhost(strings.TrimRight(cfg.BaseURL, "/")),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func rewriteLocalhost(baseURL string) string {
	return strings.Replace(baseURL, "localhost", "127.0.0.1", 1)
}

// healthCheckTimeout bounds IsHealthy independently of the chat completion
// timeout: an unresponsive daemon must not block decide_hook/execute_run for
// longer than this regardless of how cfg.LLM.Timeout is configured.
const healthCheckTimeout = 5 * time.Second

// tagsResponse is /api/tags' body: the list of models Ollama currently has
// pulled and ready to serve.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// IsHealthy reports whether the Ollama daemon answers GET /api/tags within
// 5 seconds with at least one model available. A daemon that is up but has
// no models pulled cannot usefully serve the smart path, so it is reported
// unhealthy the same as an unreachable one; either way the caller falls back
// to the fast path for this invocation.
func (c *Client) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}
	return len(tags.Models) > 0
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// responseBudget clamps an output token budget to a heuristic fraction of
// the prompt's own length: B = clamp(floor(promptChars/4 * 0.4), 64, 2048).
func responseBudget(promptChars int) int {
	b := int(float64(promptChars/4) * 0.4)
	if b < 64 {
		return 64
	}
	if b > 2048 {
		return 2048
	}
	return b
}

// Chat sends a system+user prompt pair to /api/chat as a single
// non-streaming request and returns the assistant's raw content.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	budget := responseBudget(len(system) + len(user))
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Options: chatOptions{
			NumPredict:  budget,
			Temperature: 0.0,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llmclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llmclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llmclient: request failed after %s: %w", time.Since(start), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llmclient: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llmclient: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("llmclient: unmarshal response: %w", err)
	}
	if cr.Error != "" {
		return "", fmt.Errorf("llmclient: API error: %s", cr.Error)
	}
	return cr.Message.Content, nil
}

// StripThinkBlocks removes <think>...</think> reasoning blocks some Ollama
// models emit ahead of their real answer.
func StripThinkBlocks(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			s = s[:start]
			break
		}
		s = s[:start] + s[start+end+len("</think>"):]
	}
	return strings.TrimSpace(s)
}

// StripFences removes a surrounding markdown code fence, if present, after
// stripping any think blocks.
func StripFences(s string) string {
	s = StripThinkBlocks(strings.TrimSpace(s))
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
