package source

import (
	"io"
	"mime/quotedprintable"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/perf"
)

// Marker contract for the supported result-page format. The format is
// positional and not well-formed HTML, so extraction is an ordered marker
// search with fixed-position fields rather than a DOM query. These
// strings must stay byte-identical to the pages they target.
const (
	disciplineMarker = `class="eventheadline"`
	entryMarker      = `class="resultline"`
	athleteMarker    = `class="athlete"`
	yearMarker       = `class="yob"`
	resultMarker     = `class="result"`
)

var (
	headerLinkRe  = regexp.MustCompile(`<a[^>]*>(.*?)</a>`)
	headerPlainRe = regexp.MustCompile(`^[^>]*>\s*([^<]+)`)

	athleteFieldRe = fieldRe(athleteMarker)
	yearFieldRe    = fieldRe(yearMarker)
	resultFieldRe  = fieldRe(resultMarker)
)

// fieldRe captures the text content directly following a marker's tag.
func fieldRe(marker string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(marker) + `[^>]*>\s*([^<]*)`)
}

// extractResults implements the shared extraction algorithm for HTML
// documents and fragments: split into discipline blocks, then into
// athlete entries, filter by club, and read the positional fields.
// Unparsable entries are dropped, never reported as errors.
func extractResults(content, club string, kind model.SourceKind) []model.RawResult {
	content = decodeQuotedPrintable(content)

	blocks := strings.Split(content, disciplineMarker)
	if len(blocks) < 2 {
		return nil
	}

	var results []model.RawResult
	for _, block := range blocks[1:] {
		discipline := extractDiscipline(block)
		if discipline == "" {
			continue
		}

		entries := strings.Split(block, entryMarker)
		for _, entry := range entries[1:] {
			// Club filter is a plain substring match, not tag-aware.
			if club != "" && !strings.Contains(entry, club) {
				continue
			}
			if result, ok := extractEntry(entry, discipline, kind); ok {
				results = append(results, result)
			}
		}
	}
	return results
}

// extractDiscipline reads the display name from a block's header region
// (everything before the first entry row), preferring link text over
// plain text.
func extractDiscipline(block string) string {
	header := block
	if idx := strings.Index(block, entryMarker); idx >= 0 {
		header = block[:idx]
	}

	if m := headerLinkRe.FindStringSubmatch(header); m != nil {
		return cleanText(m[1])
	}
	if m := headerPlainRe.FindStringSubmatch(header); m != nil {
		return cleanText(m[1])
	}
	return ""
}

// extractEntry reads one athlete row. The performance and category share
// the result marker and are disambiguated only by position: the first
// occurrence is the performance, the second the raw category.
func extractEntry(entry, discipline string, kind model.SourceKind) (model.RawResult, bool) {
	nameMatch := athleteFieldRe.FindStringSubmatch(entry)
	if nameMatch == nil {
		return model.RawResult{}, false
	}
	name := cleanText(nameMatch[1])
	if name == "" {
		return model.RawResult{}, false
	}

	resultFields := resultFieldRe.FindAllStringSubmatch(entry, 2)
	if len(resultFields) == 0 {
		return model.RawResult{}, false
	}
	display := strings.ReplaceAll(cleanText(resultFields[0][1]), ",", ".")
	seconds, ok := perf.Normalize(display)
	if !ok {
		return model.RawResult{}, false
	}

	category := ""
	if len(resultFields) > 1 {
		category = cleanText(resultFields[1][1])
	}

	birthYear := 0
	if m := yearFieldRe.FindStringSubmatch(entry); m != nil {
		birthYear = parseBirthYear(cleanText(m[1]))
	}

	return model.RawResult{
		Source:             kind,
		AthleteName:        name,
		BirthYear:          birthYear,
		Gender:             inferGender(category),
		CategoryDB:         category,
		DisciplineRaw:      discipline,
		PerformanceDisplay: display,
		PerformanceSeconds: seconds,
	}, true
}

// inferGender guesses the gender from the raw category text. Keyword
// containment only: W, F or "Frauen" mean female, anything else
// defaults to male. Known accuracy limitation, kept to match the pages.
func inferGender(category string) string {
	upper := strings.ToUpper(category)
	if strings.Contains(upper, "W") || strings.Contains(upper, "F") {
		return "W"
	}
	return "M"
}

// parseBirthYear parses a two- or four-digit birth year field.
func parseBirthYear(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	switch {
	case year >= 1900:
		return year
	case year < 100 && year >= 30:
		return 1900 + year
	case year < 30:
		return 2000 + year
	default:
		return 0
	}
}

// cleanText strips residual tags and decodes entities via an HTML parse,
// then collapses whitespace.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.Join(strings.Fields(b.String()), " ")
}

// decodeQuotedPrintable decodes quoted-printable content when the
// telltale =3D escape is present (exported result pages are often saved
// as MHTML). Decoding failures fall back to the raw content.
func decodeQuotedPrintable(content string) string {
	if !strings.Contains(content, "=3D") {
		return content
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(content)))
	if err != nil && len(decoded) == 0 {
		return content
	}
	return string(decoded)
}
