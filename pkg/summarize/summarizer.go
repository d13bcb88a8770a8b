// Package summarize produces short summaries of abstracts via external
// model APIs, degrading to deterministic truncation whenever the API is
// unavailable, rate-limited or misconfigured. Summarization never fails:
// every backend returns the fallback text instead of an error.
package summarize

import (
	"context"
	"strings"
)

const (
	// fallbackLimit is the truncation length of the degraded-mode summary.
	fallbackLimit = 200
	// inputLimit caps the text sent to the model APIs.
	inputLimit = 800

	systemPrompt = "You write concise 2-3 sentence summaries of research paper and patent abstracts. Reply with the summary only."
)

// Summarizer turns an abstract into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// Fallback is the no-credential summarizer: input truncated with a trailing
// ellipsis marker.
type Fallback struct{}

// NewFallback returns the deterministic truncation summarizer.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Summarize implements Summarizer.
func (f *Fallback) Summarize(_ context.Context, text string) string {
	return fallbackSummary(text)
}

func fallbackSummary(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "No content available"
	}
	return truncate(trimmed, fallbackLimit) + "..."
}

// truncate cuts s to at most n runes without splitting a multi-byte
// character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
