// Package report collapses qualification records into the final report:
// one best record per (athlete, target discipline, qualification path),
// cross-referenced performances for transitive records, and the run
// statistics.
package report

import (
	"regexp"
	"sort"
	"strings"

	"github.com/limitscan/limitscan/internal/match"
	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/qualify"
)

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug canonicalizes an athlete name for grouping.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugCleanRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Reporter deduplicates qualification records and assembles the report.
type Reporter struct {
	spec     *model.LimitSpec
	matcher  *match.Matcher
	resolver *qualify.Resolver
}

// NewReporter creates a reporter for the given specification.
func NewReporter(spec *model.LimitSpec) *Reporter {
	return &Reporter{
		spec:     spec,
		matcher:  match.NewMatcher(spec),
		resolver: qualify.NewResolver(spec),
	}
}

// Finalize collapses the records, attaches cross-referenced performance
// info to transitive records and computes the statistics. The analyzed
// count is supplied by the pipeline: it is the number of raw results with
// at least one candidate config, which the reporter cannot recover from
// the records alone.
func (r *Reporter) Finalize(records []model.QualificationRecord, raws []model.RawResult, analyzed int) *model.Report {
	best := r.deduplicate(records)

	for i := range best {
		if best[i].ViaSecondary != "" {
			r.crossReference(&best[i], raws)
		}
	}

	stats := model.Stats{
		RawFetched: len(raws),
		Analyzed:   analyzed,
	}
	for _, rec := range best {
		switch rec.Status {
		case model.StatusQualified:
			stats.Qualified++
		case model.StatusNearMiss:
			stats.NearMiss++
		}
	}

	return &model.Report{Data: best, Stats: stats}
}

// deduplicate keeps one record per (athlete slug, matched discipline,
// qualification path). A qualified record always beats any near-miss in
// its group; ties within a status keep the better performance by the
// discipline's direction.
func (r *Reporter) deduplicate(records []model.QualificationRecord) []model.QualificationRecord {
	groups := make(map[string][]model.QualificationRecord)
	var order []string

	for _, rec := range records {
		key := Slug(rec.AthleteName) + "|" + rec.DisciplineMatched + "|" + rec.Via()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	var best []model.QualificationRecord
	for _, key := range order {
		group := groups[key]

		anyQualified := false
		for _, rec := range group {
			if rec.Status == model.StatusQualified {
				anyQualified = true
				break
			}
		}
		if anyQualified {
			filtered := group[:0]
			for _, rec := range group {
				if rec.Status == model.StatusQualified {
					filtered = append(filtered, rec)
				}
			}
			group = filtered
		}

		best = append(best, bestOf(group))
	}

	sort.SliceStable(best, func(i, j int) bool {
		if best[i].Status != best[j].Status {
			return best[i].Status == model.StatusQualified
		}
		return Slug(best[i].AthleteName) < Slug(best[j].AthleteName)
	})

	return best
}

// bestOf picks the single best record of a group: field events keep the
// maximum performance, track events the minimum.
func bestOf(group []model.QualificationRecord) model.QualificationRecord {
	best := group[0]
	field := qualify.IsFieldEvent(best.DisciplineMatched)
	for _, rec := range group[1:] {
		if betterPerformance(rec.PerformanceSeconds, best.PerformanceSeconds, field) {
			best = rec
		}
	}
	return best
}

func betterPerformance(candidate, current float64, field bool) bool {
	if field {
		return candidate > current
	}
	return candidate < current
}

// crossReference attaches primary performance info for a transitive
// record: the athlete's best actual result in the matched (target)
// discipline, plus the limit that would apply to it, while the
// qualification that triggered the chain moves to the secondary fields.
func (r *Reporter) crossReference(rec *model.QualificationRecord, raws []model.RawResult) {
	rec.SecondaryPerf = rec.PerformanceDisplay
	rec.SecondaryLimit = rec.LimitHit

	targetCfg, found := r.spec.ConfigFor(rec.DisciplineMatched)
	if !found {
		return
	}
	targetKey := match.NormalizeName(targetCfg.Discipline)
	field := qualify.IsFieldEvent(targetCfg.Discipline)
	athlete := Slug(rec.AthleteName)

	var primary *model.RawResult
	for i := range raws {
		raw := &raws[i]
		if Slug(raw.AthleteName) != athlete {
			continue
		}
		if !strings.Contains(match.NormalizeName(raw.DisciplineRaw), targetKey) {
			continue
		}
		if primary == nil || betterPerformance(raw.PerformanceSeconds, primary.PerformanceSeconds, field) {
			primary = raw
		}
	}
	if primary == nil {
		return
	}

	rec.PrimaryPerformanceDisplay = primary.PerformanceDisplay
	if limit, _, ok := r.resolver.LimitFor(*primary, targetCfg); ok {
		rec.PrimaryLimit = limit
	}
}
