// Package perf normalizes textual performance representations into a
// canonical seconds value used for all limit comparisons. Times and
// distances share the same representation: for track events the value is
// seconds, for field events metres. Direction of comparison is decided
// downstream.
package perf

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Trailing indoor-track metadata: an optional ":" or "-" separator,
	// optionally followed by a 200/400 track-length marker, and nothing
	// else. "16.41 : 200" and "54.34-200" both reduce to the bare value.
	metaSeparatorRe = regexp.MustCompile(`^(.+?)\s*[:\-]\s*(?:200|400)?$`)
	metaBareRe      = regexp.MustCompile(`^(.+?)\s+(?:200|400)$`)

	dotRunRe     = regexp.MustCompile(`\.{2,}`)
	hourFormRe   = regexp.MustCompile(`^\s*(?:(\d+)h)?\s*(?:(\d+):)?(\d+)(?:\.(\d+))?\s*$`)
	nonNumericRe = regexp.MustCompile(`[^0-9.]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
)

// Normalize parses an arbitrary performance string into seconds (or
// metres). The second return value is false for strings that carry no
// performance at all ("DNS", "", "aufg."). Normalize never panics.
func Normalize(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" || !digitRe.MatchString(s) {
		return 0, false
	}

	s = stripMetadata(s)
	s = dotRunRe.ReplaceAllString(s, ".")
	s = repairDotSeparators(s)

	switch {
	case strings.Contains(s, "h"):
		return parseHourForm(s)
	case strings.Contains(s, ":"):
		return parseColonForm(s)
	default:
		return parsePlain(s)
	}
}

// stripMetadata removes a trailing track-length annotation.
func stripMetadata(s string) string {
	if m := metaSeparatorRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := metaBareRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// repairDotSeparators rewrites dot-separated times like "2.54.47" into
// "2:54.47": when no colon is present, every dot except the last acts as
// a minute or hour separator.
func repairDotSeparators(s string) string {
	if strings.Contains(s, ":") {
		return s
	}
	if strings.Count(s, ".") < 2 {
		return s
	}
	last := strings.LastIndex(s, ".")
	return strings.ReplaceAll(s[:last], ".", ":") + s[last:]
}

// parseHourForm parses "<hours>h<minutes>:<seconds>.<fraction>" with the
// hour and minute parts optional.
func parseHourForm(s string) (float64, bool) {
	m := hourFormRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	var total float64
	if m[1] != "" {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		total += float64(hours) * 3600
	}
	if m[2] != "" {
		minutes, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		total += float64(minutes) * 60
	}
	seconds, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}
	total += float64(seconds)
	if m[4] != "" {
		fraction, err := strconv.ParseFloat("0."+m[4], 64)
		if err != nil {
			return 0, false
		}
		total += fraction
	}
	return total, true
}

// parseColonForm parses "MM:SS.ss" and "HH:MM:SS.ss".
func parseColonForm(s string) (float64, bool) {
	parts := strings.Split(s, ":")

	switch len(parts) {
	case 2:
		minutes, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		seconds, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return minutes*60 + seconds, true
	case 3:
		hours, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		minutes, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		seconds, err3 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, false
		}
		return hours*3600 + minutes*60 + seconds, true
	default:
		return 0, false
	}
}

// parsePlain strips everything that is not a digit or dot and parses the
// remainder as a float.
func parsePlain(s string) (float64, bool) {
	cleaned := nonNumericRe.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
