package model

// Report is the run's only durable output: the deduplicated qualification
// records plus statistics that make silent drops auditable.
type Report struct {
	Data  []QualificationRecord `json:"data"`
	Stats Stats                 `json:"stats"`
}

// Stats summarizes a run. RawFetched counts every extracted result,
// Analyzed only those with at least one candidate limit config, so the
// gap between the two is the no-match count.
type Stats struct {
	RawFetched int `json:"raw_fetched"`
	Analyzed   int `json:"analyzed"`
	Qualified  int `json:"qualified"`
	NearMiss   int `json:"near_miss"`
}
