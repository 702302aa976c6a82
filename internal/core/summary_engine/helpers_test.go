package summary_engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/models"
)

// stubLLM answers with fn and counts calls.
type stubLLM struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, system, user string) (string, error)
}

func (s *stubLLM) Generate(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(ctx, system, user)
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func testPrompts() *PromptCatalog {
	c, err := LoadPromptCatalog("")
	if err != nil {
		panic(err)
	}
	return c
}

func newTestWorker(fn func(ctx context.Context, system, user string) (string, error)) (*Worker, *stubLLM) {
	llm := &stubLLM{fn: fn}
	return NewWorker(llm, testPrompts(), fastPolicy(), zerolog.Nop()), llm
}

func makeChunks(contents ...string) []models.TextChunk {
	out := make([]models.TextChunk, len(contents))
	for i, c := range contents {
		out[i] = models.TextChunk{Index: i, Content: c, CharCount: len([]rune(c))}
	}
	return out
}

func isFinal(system string) bool {
	return strings.Contains(system, "documentation writer")
}
