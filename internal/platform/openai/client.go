package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

// Client is the narrow slice of the OpenAI API the backend uses.
type Client interface {
	// GenerateText returns the assistant's plain-text reply.
	GenerateText(ctx context.Context, system string, user string) (string, error)
	// GenerateJSON asks for a JSON object and decodes it into out.
	GenerateJSON(ctx context.Context, system string, user string, out any) error
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type client struct {
	log     *logger.Logger
	api     *goopenai.Client
	model   string
	timeout time.Duration
}

var ErrEmptyCompletion = errors.New("openai returned no choices")

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = goopenai.GPT4oMini
	}
	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = strings.TrimRight(base, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &client{
		log:     log.With("client", "OpenAIClient", "model", model),
		api:     goopenai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *client) complete(ctx context.Context, system, user string, format *goopenai.ChatCompletionResponseFormat) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: format,
	}
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.log.Warn("OpenAI chat completion failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	c.log.Debug("OpenAI chat completion",
		"finish_reason", resp.Choices[0].FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return c.complete(ctx, system, user, nil)
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, out any) error {
	raw, err := c.complete(ctx, system, user, &goopenai.ChatCompletionResponseFormat{
		Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
	})
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "```json"), "```"))
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode openai json: %w", err)
	}
	return nil
}
