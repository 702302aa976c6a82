package core

import (
	"context"
	"fmt"
)

// LLMProvider generates a completion for a system/user prompt pair.
// Implementations return *HTTPStatusError for non-2xx replies so callers can decide on retries.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
	Name() string
}

// HTTPStatusError carries the status code of a failed model call.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("model endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("model endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError marks a reply that does not match the expected schema.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed model response: " + e.Reason
}
