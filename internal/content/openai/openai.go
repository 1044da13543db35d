// Package openai provides the OpenAI Chat Completions backend for TalentPipe
// content generation.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a recruitment assistant. Answer precisely in the requested format."

// Generator wraps the OpenAI client to provide simple prompt-based
// interactions.
type Generator struct {
	client openai.Client
	model  openai.ChatModel
}

// NewGenerator creates a Generator for the OpenAI API.
func NewGenerator(apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	cli := openai.NewClient(option.WithAPIKey(apiKey))

	m := openai.ChatModel(strings.TrimSpace(model))
	if m == "" {
		m = openai.ChatModelGPT4oMini
	}

	return &Generator{client: cli, model: m}, nil
}

// GenerateContent sends the prompt as a single user message and returns the
// first choice's content.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}
	return output, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return string(g.model)
}
