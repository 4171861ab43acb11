package guidance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// TextGenerator produces a reply to a system and user prompt pair
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// OpenAIConfig holds the chat completion endpoint settings
type OpenAIConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// OpenAIGenerator talks to any OpenAI-compatible chat completion endpoint,
// including a local Ollama server.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator for the configured endpoint
func NewOpenAIGenerator(cfg OpenAIConfig, extra ...option.RequestOption) *OpenAIGenerator {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Ollama accepts any bearer token
		apiKey = "ollama"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Model returns the model name sent with each request
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Generate runs a single chat completion
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
