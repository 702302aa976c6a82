package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/paperdigest/internal/config"
)

func TestNewPipeline(t *testing.T) {
	cfg := &config.Config{
		ModelProvider:     config.ProviderOllama,
		ModelBaseURL:      "http://localhost:11434",
		ModelName:         "gemma3:27b-16k",
		ModelTimeout:      time.Minute,
		ChunkMaxChars:     1000,
		ChunkOverlapChars: 10,
		Concurrency:       2,
		RetryMaxAttempts:  1,
		RetryBaseDelay:    time.Millisecond,
		RetryMaxDelay:     time.Millisecond,
		Extractor:         config.ExtractorDocconv,
	}

	p, err := NewPipeline(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "ollama:gemma3:27b-16k", p.Provider.Name())
	require.NotNil(t, p.Prompts)
	assert.Len(t, p.Prompts.Sections(), 5)
	assert.NotNil(t, p.Dispatcher)
	assert.NotNil(t, p.Service)
}

func TestNewPipeline_BadPromptsFile(t *testing.T) {
	cfg := &config.Config{
		ModelProvider: config.ProviderOllama,
		ModelBaseURL:  "http://localhost:11434",
		PromptsFile:   t.TempDir() + "/missing.yaml",
	}

	_, err := NewPipeline(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
