package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/retry"
)

// AnthropicClient summarizes via the Anthropic Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	policy *retry.Config
	logger *zap.Logger
}

var _ Summarizer = (*AnthropicClient)(nil)

// NewAnthropicClient builds an Anthropic-backed summarizer.
func NewAnthropicClient(apiKey, model string, logger *zap.Logger) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
		policy: retry.DefaultConfig(),
		logger: logger.Named("summarize.anthropic"),
	}
}

// Summarize requests a message completion. Any failure after the retry
// budget yields the truncation fallback.
func (c *AnthropicClient) Summarize(ctx context.Context, text string) string {
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

func (c *AnthropicClient) complete(ctx context.Context, text string) (string, error) {
	prompt := systemPrompt + "\n\n" + text
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 150,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create messages: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			summary := strings.TrimSpace(*block.Text)
			if summary != "" {
				return summary, nil
			}
		}
	}
	return "", fmt.Errorf("no text content in response")
}
