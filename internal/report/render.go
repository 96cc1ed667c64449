package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/limitscan/limitscan/internal/model"
)

// Renderer writes reports to files and the terminal.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(rep *model.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(rep *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# Qualification Report\n\n")
	fmt.Fprintf(&b, "| Fetched | Analyzed | Qualified | Near miss |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n\n",
		rep.Stats.RawFetched, rep.Stats.Analyzed, rep.Stats.Qualified, rep.Stats.NearMiss)

	if len(rep.Data) == 0 {
		b.WriteString("No qualifying or near-miss results.\n")
	} else {
		b.WriteString("| Athlete | Discipline | Performance | Limit | Category | Status | Via |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, rec := range rep.Data {
			status := string(rec.Status)
			if rec.Status == model.StatusNearMiss {
				status = fmt.Sprintf("near miss (%.1f%%)", rec.DiffPercent)
			}
			via := rec.ViaSecondary
			if via == "" {
				via = "–"
			}
			performance := rec.PerformanceDisplay
			if rec.ViaSecondary != "" && rec.PrimaryPerformanceDisplay != "" {
				performance = fmt.Sprintf("%s (via %s)", rec.PrimaryPerformanceDisplay, rec.SecondaryPerf)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				rec.AthleteName, rec.DisciplineMatched, performance,
				rec.LimitHit, rec.CategoryHit, status, via)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\nGenerated by limitscan. Qualification is decided by the limits specification alone; near-miss is a best-effort 5% proximity heuristic.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

// RenderSummary prints a short run summary to stdout.
func (r *Renderer) RenderSummary(rep *model.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Qualification Summary")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Results fetched:  %d\n", rep.Stats.RawFetched)
	fmt.Printf("  Analyzed:         %d\n", rep.Stats.Analyzed)
	fmt.Printf("  Qualified:        %d\n", rep.Stats.Qualified)
	fmt.Printf("  Near misses:      %d\n", rep.Stats.NearMiss)
	fmt.Println()

	for _, rec := range rep.Data {
		marker := "✓"
		if rec.Status == model.StatusNearMiss {
			marker = "~"
		}
		line := fmt.Sprintf("  %s %s — %s %s (limit %s, %s)",
			marker, rec.AthleteName, rec.DisciplineMatched,
			rec.PerformanceDisplay, rec.LimitHit, rec.CategoryHit)
		if rec.ViaSecondary != "" {
			line += fmt.Sprintf(" via %s", rec.ViaSecondary)
		}
		fmt.Println(line)
	}
	if len(rep.Data) > 0 {
		fmt.Println()
	}
}
