package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/developia-II/langobridge/internal/models"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultAIBaseURL = "https://openrouter.ai/api/v1"
	DefaultAIModel   = "deepseek/deepseek-chat-v3-0324:free"
)

var ErrMalformedAIResponse = errors.New("malformed AI response")

// ExampleService asks an OpenAI-compatible chat API for one example sentence per language.
type ExampleService struct {
	client *openai.Client
	model  string
}

func NewExampleService(apiKey, baseURL, model string) *ExampleService {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if baseURL == "" {
		baseURL = DefaultAIBaseURL
	}
	cfg.BaseURL = baseURL
	if model == "" {
		model = DefaultAIModel
	}
	return &ExampleService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *ExampleService) GenerateExample(ctx context.Context, bangla, korean string) (models.Example, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    BuildExampleMessages(bangla, korean),
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		return models.Example{}, fmt.Errorf("ai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Example{}, fmt.Errorf("%w: no choices", ErrMalformedAIResponse)
	}
	return ParseExample(resp.Choices[0].Message.Content)
}

func BuildExampleMessages(bangla, korean string) []openai.ChatCompletionMessage {
	prompt := fmt.Sprintf(
		"Generate one example sentence in Bangla using %q and one in Korean using %q. "+
			"Do not include English translations. Return in format: Bangla: [sentence]\nKorean: [sentence]",
		bangla, korean)
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
}

// ParseExample reads the "Bangla:" and "Korean:" lines out of a completion.
func ParseExample(content string) (models.Example, error) {
	var ex models.Example
	for _, line := range strings.Split(content, "\n") {
		line = strings.Trim(line, "* \t\r")
		switch {
		case hasLabel(line, "Bangla:"):
			ex.Bangla = strings.Trim(line[len("Bangla:"):], "* \t")
		case hasLabel(line, "Korean:"):
			ex.Korean = strings.Trim(line[len("Korean:"):], "* \t")
		}
	}
	if ex.Bangla == "" || ex.Korean == "" {
		return models.Example{}, fmt.Errorf("%w: %q", ErrMalformedAIResponse, preview([]byte(content)))
	}
	return ex, nil
}

func hasLabel(line, label string) bool {
	return len(line) >= len(label) && strings.EqualFold(line[:len(label)], label)
}
