// Package llm generates an optional natural-language summary of a
// qualification report. The summary is presentation only: it is produced
// after the report is final and never feeds back into qualification.
package llm

import (
	"context"
	"fmt"

	"github.com/limitscan/limitscan/internal/model"
)

// Provider is one LLM backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Summarize generates a summary of the report.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest is the input for summarization.
type SummarizeRequest struct {
	Report    model.Report
	Prompt    string // Optional custom prompt
	Model     string // Provider-specific model override
	MaxTokens int
}

// SummarizeResponse is the generated summary.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	Provider  string // "openai" or "" for disabled
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// ConfigFromModel converts the runtime configuration.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default summarization prompt. The model is
// told the numbers; it must not invent results that are not in the
// report.
func BuildPrompt(report model.Report) string {
	prompt := fmt.Sprintf(`You are summarizing an athletics qualification report for a club coach.

RULES:
1. Only mention athletes, disciplines and performances listed below.
2. Do not speculate about results that are not in the report.
3. A "near miss" is within 5%% of the limit without reaching it; say so plainly.

Statistics:
- Results fetched: %d
- Analyzed against limits: %d
- Qualified: %d
- Near misses: %d

Records:
`, report.Stats.RawFetched, report.Stats.Analyzed, report.Stats.Qualified, report.Stats.NearMiss)

	for i, rec := range report.Data {
		if i >= 30 {
			prompt += fmt.Sprintf("... and %d more records\n", len(report.Data)-30)
			break
		}
		line := fmt.Sprintf("- %s: %s %s (limit %s, category %s, %s)",
			rec.AthleteName, rec.DisciplineMatched, rec.PerformanceDisplay,
			rec.LimitHit, rec.CategoryHit, rec.Status)
		if rec.ViaSecondary != "" {
			line += fmt.Sprintf(" via %s", rec.ViaSecondary)
		}
		prompt += line + "\n"
	}

	prompt += "\nProvide a 3-5 sentence summary of who qualified for what and who is close."
	return prompt
}
