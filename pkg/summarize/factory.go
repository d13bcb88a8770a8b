package summarize

import (
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/config"
)

// New selects a summarizer backend from configuration. A missing API key is
// the documented degraded mode: every summary becomes the truncation
// fallback, ingestion still completes.
func New(cfg config.SummarizerConfig, logger *zap.Logger) Summarizer {
	if !cfg.IsAvailable() {
		logger.Warn("summarizer API key not set, using truncation fallback",
			zap.String("provider", cfg.Provider))
		return NewFallback()
	}

	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model, logger)
	default:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, logger)
	}
}
