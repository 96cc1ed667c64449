package model

// Status classifies a qualification record.
type Status string

const (
	StatusQualified Status = "qualified"
	StatusNearMiss  Status = "near_miss"
)

// Category hit sentinels for the global fallback tiers.
const (
	CategoryGlobal  = "Global"
	CategoryGlobalM = "Global M"
	CategoryGlobalW = "Global W"
)

// ViaDirect is the grouping sentinel for records that are not transitive.
const ViaDirect = "direct"

// QualificationRecord is one evaluated result. A raw result can produce
// several records: a direct one per its own discipline and, on
// qualification, one transitive record per qualifies_for target.
type QualificationRecord struct {
	RawResult

	LimitHit          string  `json:"limit_hit"`
	CategoryHit       string  `json:"category_hit"` // Category code, "Global", "Global M" or "Global W"
	DisciplineMatched string  `json:"discipline_matched"`
	Status            Status  `json:"status"`
	DiffPercent       float64 `json:"diff_percent"`            // 0 for qualified, perf/limit*100 for near-miss
	ViaSecondary      string  `json:"via_secondary,omitempty"` // Source discipline key, transitive records only
	HasQualifiesFor   bool    `json:"has_qualifies_for"`

	// Cross-referenced by the reporter for transitive records: primary
	// fields describe the matched (target) discipline, secondary fields
	// the performance that triggered the transitive qualification.
	PrimaryPerformanceDisplay string `json:"primary_performance_display,omitempty"`
	PrimaryLimit              string `json:"primary_limit,omitempty"`
	SecondaryPerf             string `json:"secondary_perf,omitempty"`
	SecondaryLimit            string `json:"secondary_limit,omitempty"`
}

// Via returns the grouping component for deduplication: the source
// discipline key for transitive records, "direct" otherwise.
func (q QualificationRecord) Via() string {
	if q.ViaSecondary != "" {
		return q.ViaSecondary
	}
	return ViaDirect
}
