package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitscan/limitscan/internal/model"
)

func sampleReport() *model.Report {
	qualified := qualRecord("Anna Example", "50m", model.StatusQualified, 6.90, "")
	qualified.PerformanceDisplay = "6.90"
	qualified.LimitHit = "7.00"
	qualified.CategoryHit = "Global"

	nearMiss := qualRecord("Ben Other", "60m", model.StatusNearMiss, 8.20, "")
	nearMiss.PerformanceDisplay = "8.20"
	nearMiss.LimitHit = "8.00"
	nearMiss.CategoryHit = "Global M"
	nearMiss.DiffPercent = 102.5

	return &model.Report{
		Data:  []model.QualificationRecord{qualified, nearMiss},
		Stats: model.Stats{RawFetched: 5, Analyzed: 4, Qualified: 1, NearMiss: 1},
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := NewRenderer(true)

	require.NoError(t, r.RenderJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed model.Report
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Len(t, parsed.Data, 2)
	assert.Equal(t, 5, parsed.Stats.RawFetched)
	assert.Equal(t, model.StatusQualified, parsed.Data[0].Status)
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := NewRenderer(true)

	require.NoError(t, r.RenderMarkdown(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# Qualification Report")
	assert.Contains(t, md, "| Anna Example | 50m | 6.90 | 7.00 | Global |")
	assert.Contains(t, md, "near miss (102.5%)")
	assert.Contains(t, md, "Generated by limitscan")
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := NewRenderer(false)

	require.NoError(t, r.RenderMarkdown(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Generated by limitscan")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	r := NewRenderer(false)

	empty := &model.Report{}
	require.NoError(t, r.RenderMarkdown(empty, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if !strings.Contains(string(data), "No qualifying or near-miss results.") {
		t.Errorf("empty report missing placeholder text")
	}
}

func TestRenderMarkdown_TransitivePerformance(t *testing.T) {
	rec := qualRecord("Anna Example", "60m", model.StatusQualified, 6.90, "50m")
	rec.PrimaryPerformanceDisplay = "8.50"
	rec.SecondaryPerf = "6.90"
	rec.LimitHit = "7.00"
	rec.CategoryHit = "Global"

	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, NewRenderer(false).RenderMarkdown(&model.Report{
		Data:  []model.QualificationRecord{rec},
		Stats: model.Stats{RawFetched: 1, Analyzed: 1, Qualified: 1},
	}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "8.50 (via 6.90)")
	assert.Contains(t, string(data), "| 50m |")
}
