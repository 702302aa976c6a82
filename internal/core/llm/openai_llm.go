package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/markdave123-py/paperdigest/internal/core"
)

// OpenAILLM calls any OpenAI-compatible chat completions endpoint (OpenAI, vLLM, LM Studio, Ollama /v1).
type OpenAILLM struct {
	client    openai.Client
	modelName string
}

var _ core.LLMProvider = (*OpenAILLM)(nil)

// NewOpenAILLM disables the SDK's own retries; the summary worker owns retry policy.
func NewOpenAILLM(baseURL, apiKey, modelName string, timeout time.Duration) *OpenAILLM {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &OpenAILLM{
		client:    openai.NewClient(opts...),
		modelName: modelName,
	}
}

func (o *OpenAILLM) Name() string { return "openai:" + o.modelName }

func (o *OpenAILLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.modelName),
		Messages: messages,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &core.HTTPStatusError{StatusCode: apiErr.StatusCode, Body: apiErr.Message}
		}
		return "", classifySDKError("openai chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", &core.MalformedResponseError{Reason: "no choices returned"}
	}
	return resp.Choices[0].Message.Content, nil
}
