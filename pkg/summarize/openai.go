package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/retry"
)

// OpenAIClient summarizes via an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	policy *retry.Config
	logger *zap.Logger
}

var _ Summarizer = (*OpenAIClient)(nil)

// NewOpenAIClient builds an OpenAI-backed summarizer. An empty baseURL uses
// the public API.
func NewOpenAIClient(apiKey, baseURL, model string, logger *zap.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		policy: retry.DefaultConfig(),
		logger: logger.Named("summarize.openai"),
	}
}

// Summarize requests a chat completion. Any failure after the retry budget
// yields the truncation fallback.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallbackSummary(text)
	}

	start := time.Now()
	summary, err := retry.DoWithResult(ctx, c.policy, func() (string, error) {
		return c.complete(ctx, truncate(trimmed, inputLimit))
	})
	if err != nil {
		c.logger.Warn("summarization failed, using fallback",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return fallbackSummary(text)
	}

	c.logger.Debug("summarization completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("summary_len", len(summary)))
	return summary
}

func (c *OpenAIClient) complete(ctx context.Context, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   150,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty summary in response")
	}
	return summary, nil
}
