package match

import (
	"strings"
	"time"
)

// Age-band upper bounds for the standard youth brackets. An athletic age
// of up to 9 is U10, up to 11 is U12, and so on; 23 and older is senior.
var ageBrackets = []struct {
	maxAge int
	label  string
}{
	{9, "U10"},
	{11, "U12"},
	{13, "U14"},
	{15, "U16"},
	{17, "U18"},
	{19, "U20"},
	{22, "U23"},
}

// AgeBracket maps an athletic age and gender to a category label such as
// "U16M" or "SeniorW".
func AgeBracket(age int, gender string) string {
	g := strings.ToUpper(strings.TrimSpace(gender))
	for _, b := range ageBrackets {
		if age <= b.maxAge {
			return b.label + g
		}
	}
	return "Senior" + g
}

// ResolveCategory finds the applicable category code for a raw result
// within a discipline's category map. The cascade tries the source's own
// category label first, then a bracket inferred from birth year; the
// first hit wins. The returned code is the map's original key so it can
// be reported as category_hit. When neither tier resolves, the resolver
// falls back to the gender-global and absolute-global limits.
func ResolveCategory(categoryDB string, birthYear int, gender string, year int, categories map[string]string) (string, bool) {
	if len(categories) == 0 {
		return "", false
	}

	lookup := make(map[string]string, len(categories))
	for key := range categories {
		lookup[canonCategory(key)] = key
	}

	if categoryDB != "" {
		if orig, found := lookup[canonCategory(categoryDB)]; found {
			return orig, true
		}
	}

	if birthYear > 0 {
		if year <= 0 {
			year = time.Now().Year()
		}
		age := year - birthYear
		bracket := AgeBracket(age, gender)
		if orig, found := lookup[canonCategory(bracket)]; found {
			return orig, true
		}
	}

	return "", false
}

// canonCategory uppercases a category label and removes spaces, so that
// "u16 m" from a result page still hits the "U16M" key.
func canonCategory(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), ""))
}
