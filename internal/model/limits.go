package model

import (
	"encoding/json"
	"fmt"
)

// LimitSpec is the qualification limits specification for one run.
// It is parsed once, validated up front, and never mutated afterwards.
type LimitSpec struct {
	Years       []int         `json:"years"`       // Result years in scope for database sources
	Disciplines []LimitConfig `json:"disciplines"` // Ordered: specification order is a precedence rule
}

// LimitConfig holds the limits for one discipline entry.
type LimitConfig struct {
	Discipline   string            `json:"discipline"`              // Canonical key, may embed qualifiers like "50mH (84.0)"
	Categories   map[string]string `json:"categories,omitempty"`    // Category code -> limit string, e.g. "U16M": "8.60"
	GlobalLimit  string            `json:"global_limit,omitempty"`  // Absolute fallback limit
	GlobalM      string            `json:"global_M,omitempty"`      // Men's fallback limit
	GlobalW      string            `json:"global_W,omitempty"`      // Women's fallback limit
	QualifiesFor []string          `json:"qualifies_for,omitempty"` // Discipline keys this qualification also satisfies
}

// ParseLimitSpec parses and validates a limits specification.
// An unparsable specification is fatal for the whole run, so the error
// must surface before any source is read.
func ParseLimitSpec(data []byte) (*LimitSpec, error) {
	var spec LimitSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse limits specification: %w", err)
	}

	if len(spec.Disciplines) == 0 {
		return nil, fmt.Errorf("limits specification contains no disciplines")
	}
	for i, cfg := range spec.Disciplines {
		if cfg.Discipline == "" {
			return nil, fmt.Errorf("limits specification: discipline %d has an empty name", i)
		}
	}

	return &spec, nil
}

// HasYear reports whether y is one of the result years in scope.
func (s *LimitSpec) HasYear(y int) bool {
	for _, year := range s.Years {
		if year == y {
			return true
		}
	}
	return false
}

// ConfigFor returns the discipline entry with the given canonical key.
func (s *LimitSpec) ConfigFor(discipline string) (LimitConfig, bool) {
	for _, cfg := range s.Disciplines {
		if cfg.Discipline == discipline {
			return cfg, true
		}
	}
	return LimitConfig{}, false
}
