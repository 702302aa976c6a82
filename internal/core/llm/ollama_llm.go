package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/markdave123-py/paperdigest/internal/core"
)

// OllamaLLM talks to Ollama's native chat endpoint with streaming disabled.
type OllamaLLM struct {
	httpClient *http.Client
	endpoint   string
	modelName  string
}

var _ core.LLMProvider = (*OllamaLLM)(nil)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message *ollamaMessage `json:"message"`
	Done    bool           `json:"done"`
	Error   string         `json:"error"`
}

// NewOllamaLLM points at baseURL (e.g. http://localhost:11434). timeout bounds one call.
func NewOllamaLLM(baseURL, modelName string, timeout time.Duration) *OllamaLLM {
	return &OllamaLLM{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/chat",
		modelName:  modelName,
	}
}

func (o *OllamaLLM) Name() string { return "ollama:" + o.modelName }

func (o *OllamaLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]ollamaMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: userPrompt})

	payload, err := json.Marshal(ollamaChatRequest{Model: o.modelName, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("ollama encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &core.HTTPStatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &core.MalformedResponseError{Reason: "invalid JSON: " + err.Error()}
	}
	if out.Error != "" {
		return "", &core.MalformedResponseError{Reason: out.Error}
	}
	if out.Message == nil {
		return "", &core.MalformedResponseError{Reason: "missing message"}
	}

	return out.Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
