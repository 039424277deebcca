package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jonesrussell/gotweet/internal/models"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAI generates tweet text through the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAI creates an OpenAI backend.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key is required")
	}

	chatModel := DefaultOpenAIModel
	if model != "" {
		chatModel = openai.ChatModel(model)
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{client: &client, model: chatModel}, nil
}

// Name returns the backend identifier.
func (o *OpenAI) Name() string { return "openai" }

// Generate sends the prompt and returns the raw model text.
func (o *OpenAI) Generate(ctx context.Context, _ models.GenerationRequest, opts Options) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(opts.System),
			openai.UserMessage(opts.User),
		},
		Temperature: openai.Float(opts.Temperature),
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	return text, nil
}
