package model

// SourceKind tags the origin of a raw result.
type SourceKind string

const (
	SourceDB     SourceKind = "db"
	SourceFile   SourceKind = "file"
	SourceURL    SourceKind = "url"
	SourceString SourceKind = "string"
)

// RawResult is one performance as extracted from a source, before any
// matching against the limits specification. Adapters drop entries whose
// performance string does not normalize, so PerformanceSeconds is always
// a valid comparable value by the time a RawResult reaches the matcher.
type RawResult struct {
	Source             SourceKind `json:"source"`
	AthleteName        string     `json:"athlete_name"`
	BirthYear          int        `json:"birth_year,omitempty"` // 0 when unknown
	Gender             string     `json:"gender"`               // "M" or "W"
	CategoryDB         string     `json:"category_db,omitempty"`
	DisciplineRaw      string     `json:"discipline_raw"`
	PerformanceDisplay string     `json:"performance_display"`
	PerformanceSeconds float64    `json:"performance_seconds"`
	Date               string     `json:"date,omitempty"`
	Year               int        `json:"year,omitempty"`
}
