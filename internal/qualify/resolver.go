// Package qualify evaluates raw results against their candidate limit
// configs and emits qualification records, including transitive
// qualifies_for chains.
package qualify

import (
	"strings"

	"github.com/limitscan/limitscan/internal/match"
	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/perf"
)

// NearMissMargin is the proximity band for near-miss classification: a
// performance within 5% of the limit without reaching it. A best-effort
// heuristic, kept configurable rather than buried in the comparison.
var NearMissMargin = 0.05

// FieldEventKeywords classifies a discipline as a field event (larger is
// better). Everything else is treated as a track event (smaller is
// better). Matched against the lowercased discipline name.
var FieldEventKeywords = []string{
	"sprung", "jump", "hoch", "weit", "drei", "stab",
	"wurf", "throw", "stoß", "stoss", "shot", "put",
	"kugel", "diskus", "discus", "speer", "javelin", "hammer",
	"hauteur", "longueur", "poids", "javelot", "disque", "marteau", "perche",
}

// IsFieldEvent reports whether a discipline name denotes a distance or
// height measured event.
func IsFieldEvent(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range FieldEventKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Resolver evaluates raw results against candidate limit configs.
type Resolver struct {
	spec *model.LimitSpec
	memo *perf.Memo
}

// NewResolver creates a resolver scoped to one run.
func NewResolver(spec *model.LimitSpec) *Resolver {
	return &Resolver{
		spec: spec,
		memo: perf.NewMemo(),
	}
}

// LimitFor resolves the limit that applies to a raw result under one
// config: direct category limit, then the gender-global fallback, then
// the absolute global. The category hit names the tier that matched.
func (r *Resolver) LimitFor(res model.RawResult, cfg model.LimitConfig) (limit string, categoryHit string, ok bool) {
	if code, found := match.ResolveCategory(res.CategoryDB, res.BirthYear, res.Gender, res.Year, cfg.Categories); found {
		if value := cfg.Categories[code]; value != "" {
			return value, code, true
		}
	}

	switch strings.ToUpper(res.Gender) {
	case "M":
		if cfg.GlobalM != "" {
			return cfg.GlobalM, model.CategoryGlobalM, true
		}
	case "W":
		if cfg.GlobalW != "" {
			return cfg.GlobalW, model.CategoryGlobalW, true
		}
	}

	if cfg.GlobalLimit != "" {
		return cfg.GlobalLimit, model.CategoryGlobal, true
	}

	return "", "", false
}

// Resolve evaluates one raw result against its candidate configs in
// specification order. The first qualifying config wins and stops the
// scan: specification order is a deliberate precedence rule, so a result
// never qualifies under two variants of the same discipline family.
// Near-misses do not short-circuit; a result may register a near-miss on
// one variant and still be evaluated against the remaining candidates.
func (r *Resolver) Resolve(res model.RawResult, candidates []model.LimitConfig) []model.QualificationRecord {
	var records []model.QualificationRecord

	for _, cfg := range candidates {
		limitStr, categoryHit, ok := r.LimitFor(res, cfg)
		if !ok {
			continue
		}
		limitSeconds, ok := r.memo.Normalize(limitStr)
		if !ok || limitSeconds == 0 {
			continue
		}

		field := IsFieldEvent(cfg.Discipline)

		if qualifies(res.PerformanceSeconds, limitSeconds, field) {
			direct := record(res, cfg, limitStr, categoryHit, model.StatusQualified, 0)
			records = append(records, direct)

			for _, target := range cfg.QualifiesFor {
				transitive := direct
				transitive.DisciplineMatched = target
				transitive.ViaSecondary = cfg.Discipline
				records = append(records, transitive)
			}
			break
		}

		if nearMiss(res.PerformanceSeconds, limitSeconds, field) {
			diff := res.PerformanceSeconds / limitSeconds * 100
			records = append(records, record(res, cfg, limitStr, categoryHit, model.StatusNearMiss, diff))
		}
	}

	return records
}

// qualifies tests the limit by direction: field events need to reach at
// least the limit, track events at most.
func qualifies(performance, limit float64, field bool) bool {
	if field {
		return performance >= limit
	}
	return performance <= limit
}

// nearMiss tests the 5% proximity band in the failing direction.
func nearMiss(performance, limit float64, field bool) bool {
	if field {
		return performance >= limit*(1-NearMissMargin)
	}
	return performance <= limit*(1+NearMissMargin)
}

func record(res model.RawResult, cfg model.LimitConfig, limit, categoryHit string, status model.Status, diff float64) model.QualificationRecord {
	return model.QualificationRecord{
		RawResult:         res,
		LimitHit:          limit,
		CategoryHit:       categoryHit,
		DisciplineMatched: cfg.Discipline,
		Status:            status,
		DiffPercent:       diff,
		HasQualifiesFor:   len(cfg.QualifiesFor) > 0,
	}
}
