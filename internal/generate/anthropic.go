package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonesrussell/gotweet/internal/models"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = anthropic.ModelClaudeHaiku4_5

// Anthropic generates tweet text through the Anthropic messages API.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates an Anthropic backend.
func NewAnthropic(apiKey, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}

	m := DefaultAnthropicModel
	if model != "" {
		m = anthropic.Model(model)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Anthropic{client: &client, model: m}, nil
}

// Name returns the backend identifier.
func (a *Anthropic) Name() string { return "anthropic" }

// Generate sends the prompt and returns the raw model text.
func (a *Anthropic) Generate(ctx context.Context, _ models.GenerationRequest, opts Options) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: opts.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(opts.User)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: generate: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Content[0].Text)
	if text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	return text, nil
}
