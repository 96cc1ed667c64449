// Package match resolves raw discipline and category labels against the
// limits specification despite naming drift between sources.
package match

import (
	"regexp"
	"strings"

	"github.com/limitscan/limitscan/internal/model"
)

// parentheticalRe removes qualifier segments like "(84.0)" or "(4kg)"
// that encode implement weight or hurdle height: limit keys and source
// labels disagree on whether to carry them.
var parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

// synonyms maps common discipline spellings onto the normalized short
// form, applied after lowercasing and parenthetical removal.
var synonyms = []struct{ from, to string }{
	{"hürden", "h"},
	{"huerden", "h"},
	{"hurdles", "h"},
	{"haies", "h"},
	{"metres", "m"},
	{"mètres", "m"},
	{"meters", "m"},
	{"meter", "m"},
}

// NormalizeName canonicalizes a discipline name for containment matching.
func NormalizeName(raw string) string {
	s := strings.ToLower(raw)
	s = parentheticalRe.ReplaceAllString(s, "")
	for _, syn := range synonyms {
		s = strings.ReplaceAll(s, syn.from, syn.to)
	}
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	return s
}

// Matcher finds the candidate limit configs for raw discipline names.
type Matcher struct {
	spec     *model.LimitSpec
	normKeys []string // Normalized limit keys, same order as spec.Disciplines
}

// NewMatcher creates a matcher over the given specification.
func NewMatcher(spec *model.LimitSpec) *Matcher {
	m := &Matcher{
		spec:     spec,
		normKeys: make([]string, len(spec.Disciplines)),
	}
	for i, cfg := range spec.Disciplines {
		m.normKeys[i] = NormalizeName(cfg.Discipline)
	}
	return m
}

// Candidates returns every limit config whose normalized key is contained
// in the normalized raw name, in specification order. Containment is
// deliberate: a raw "50mH (84.0)" must match the "50mH" family even when
// several hurdle-height variants share it, and the source data does not
// say which variant applies, so the caller evaluates all of them. Only
// key-in-raw containment is tested, never the reverse. Parenthetical
// qualifiers are stripped from keys and raw names alike before the
// test, so a qualified key also matches its bare family name; keeping
// qualifiers on keys would stop the variant configs from matching raw
// names that omit them.
func (m *Matcher) Candidates(rawName string) []model.LimitConfig {
	norm := NormalizeName(rawName)
	if norm == "" {
		return nil
	}

	var candidates []model.LimitConfig
	for i, key := range m.normKeys {
		if key != "" && strings.Contains(norm, key) {
			candidates = append(candidates, m.spec.Disciplines[i])
		}
	}
	return candidates
}
