package llm

import (
	"context"
	"fmt"

	"github.com/limitscan/limitscan/internal/model"
)

// Summarizer wraps a provider with the run configuration.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer, or (nil, nil) when no provider is
// configured.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// GenerateSummary summarizes a finished report. Errors here must never
// fail the run; the caller logs and moves on.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (string, error) {
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize report: %w", err)
	}
	return resp.Summary, nil
}
