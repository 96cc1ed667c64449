package qualify

import (
	"testing"

	"github.com/limitscan/limitscan/internal/model"
)

func TestIsFieldEvent(t *testing.T) {
	fieldEvents := []string{"Weitsprung", "Hochsprung", "Kugelstoß (4kg)", "Long Jump", "Shot Put", "Speerwurf"}
	trackEvents := []string{"50m", "60mH (84.0)", "800m", "4:10 walk", "100m haies"}

	for _, name := range fieldEvents {
		if !IsFieldEvent(name) {
			t.Errorf("IsFieldEvent(%q) = false, want true", name)
		}
	}
	for _, name := range trackEvents {
		if IsFieldEvent(name) {
			t.Errorf("IsFieldEvent(%q) = true, want false", name)
		}
	}
}

func result(perf float64, gender string) model.RawResult {
	return model.RawResult{
		AthleteName:        "Test Athlete",
		Gender:             gender,
		PerformanceSeconds: perf,
		PerformanceDisplay: "x",
		Year:               2024,
	}
}

func TestResolver_TrackDirection(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{Discipline: "100m", GlobalLimit: "10.00"},
	}}
	r := NewResolver(spec)

	records := r.Resolve(result(9.90, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].Status != model.StatusQualified {
		t.Errorf("9.90 against 10.00 track limit: got %v, want one qualified record", records)
	}

	records = r.Resolve(result(10.10, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].Status != model.StatusNearMiss {
		t.Errorf("10.10 against 10.00 track limit: got %v, want one near-miss record", records)
	}
}

func TestResolver_FieldDirection(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{Discipline: "Weitsprung", GlobalLimit: "6.00"},
	}}
	r := NewResolver(spec)

	records := r.Resolve(result(6.10, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].Status != model.StatusQualified {
		t.Errorf("6.10 against 6.00 field limit: got %v, want one qualified record", records)
	}

	records = r.Resolve(result(5.90, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].Status != model.StatusNearMiss {
		t.Errorf("5.90 against 6.00 field limit: got %v, want one near-miss record", records)
	}
}

func TestResolver_NearMissBand(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{Discipline: "100m", GlobalLimit: "10.00"},
	}}
	r := NewResolver(spec)

	// 10.50 is exactly 5% over the limit and still inside the band.
	records := r.Resolve(result(10.50, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].Status != model.StatusNearMiss {
		t.Fatalf("10.50 against 10.00: got %v, want one near-miss record", records)
	}
	if diff := records[0].DiffPercent; diff < 104.9 || diff > 105.1 {
		t.Errorf("near-miss diff percent = %v, want ~105", diff)
	}

	// 10.51 is outside the band and produces nothing.
	records = r.Resolve(result(10.51, "M"), spec.Disciplines)
	if len(records) != 0 {
		t.Errorf("10.51 against 10.00: got %v, want no records", records)
	}
}

func TestResolver_LimitCascade(t *testing.T) {
	cfg := model.LimitConfig{
		Discipline:  "60m",
		Categories:  map[string]string{"U16M": "8.20"},
		GlobalM:     "7.80",
		GlobalW:     "8.60",
		GlobalLimit: "8.00",
	}
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{cfg}}
	r := NewResolver(spec)

	// Category tier wins when the athlete resolves into it.
	res := result(8.00, "M")
	res.CategoryDB = "U16M"
	limit, hit, ok := r.LimitFor(res, cfg)
	if !ok || limit != "8.20" || hit != "U16M" {
		t.Errorf("category tier = (%q, %q, %v), want (8.20, U16M, true)", limit, hit, ok)
	}

	// Without a category, the gender-global tier applies.
	limit, hit, ok = r.LimitFor(result(8.00, "M"), cfg)
	if !ok || limit != "7.80" || hit != model.CategoryGlobalM {
		t.Errorf("gender tier = (%q, %q, %v), want (7.80, Global M, true)", limit, hit, ok)
	}
	limit, hit, ok = r.LimitFor(result(8.00, "W"), cfg)
	if !ok || limit != "8.60" || hit != model.CategoryGlobalW {
		t.Errorf("gender tier = (%q, %q, %v), want (8.60, Global W, true)", limit, hit, ok)
	}

	// Without a gender-global limit, the absolute global applies.
	bare := model.LimitConfig{Discipline: "60m", GlobalLimit: "8.00"}
	limit, hit, ok = r.LimitFor(result(8.00, "M"), bare)
	if !ok || limit != "8.00" || hit != model.CategoryGlobal {
		t.Errorf("global tier = (%q, %q, %v), want (8.00, Global, true)", limit, hit, ok)
	}

	// No tier at all resolves to nothing.
	empty := model.LimitConfig{Discipline: "60m"}
	if _, _, ok = r.LimitFor(result(8.00, "M"), empty); ok {
		t.Errorf("expected no limit for config without any tier")
	}
}

func TestResolver_FirstQualifyingConfigWins(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{Discipline: "50mH (76.2)", GlobalLimit: "8.50"},
		{Discipline: "50mH (84.0)", GlobalLimit: "9.00"},
	}}
	r := NewResolver(spec)

	// Both variants would qualify; only the first in specification order is
	// emitted.
	records := r.Resolve(result(8.40, "M"), spec.Disciplines)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].DisciplineMatched != "50mH (76.2)" {
		t.Errorf("matched %q, want the first qualifying config", records[0].DisciplineMatched)
	}
}

func TestResolver_NearMissDoesNotShortCircuit(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{Discipline: "50mH (76.2)", GlobalLimit: "8.20"},
		{Discipline: "50mH (84.0)", GlobalLimit: "8.50"},
	}}
	r := NewResolver(spec)

	// 8.40 misses the first variant inside the band and qualifies under the
	// second. Both records are emitted.
	records := r.Resolve(result(8.40, "M"), spec.Disciplines)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Status != model.StatusNearMiss || records[0].DisciplineMatched != "50mH (76.2)" {
		t.Errorf("first record = %+v, want near-miss on 50mH (76.2)", records[0])
	}
	if records[1].Status != model.StatusQualified || records[1].DisciplineMatched != "50mH (84.0)" {
		t.Errorf("second record = %+v, want qualified on 50mH (84.0)", records[1])
	}
}

func TestResolver_TransitiveRecords(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{
			Discipline:   "50m",
			GlobalLimit:  "7.00",
			QualifiesFor: []string{"60m", "100m"},
		},
	}}
	r := NewResolver(spec)

	records := r.Resolve(result(6.90, "M"), spec.Disciplines)
	if len(records) != 3 {
		t.Fatalf("expected 3 records (direct + 2 transitive), got %d", len(records))
	}

	direct := records[0]
	if direct.DisciplineMatched != "50m" || direct.ViaSecondary != "" || !direct.HasQualifiesFor {
		t.Errorf("direct record = %+v", direct)
	}

	for i, target := range []string{"60m", "100m"} {
		tr := records[i+1]
		if tr.DisciplineMatched != target || tr.ViaSecondary != "50m" || tr.Status != model.StatusQualified {
			t.Errorf("transitive record %d = %+v, want target %q via 50m", i, tr, target)
		}
	}

	// A near-miss never propagates through qualifies_for.
	records = r.Resolve(result(7.10, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].Status != model.StatusNearMiss {
		t.Fatalf("near-miss records = %v, want exactly one", records)
	}
	if records[0].ViaSecondary != "" {
		t.Errorf("near-miss record must not be transitive: %+v", records[0])
	}
}

func TestResolver_UnparsableLimitSkipsConfig(t *testing.T) {
	spec := &model.LimitSpec{Disciplines: []model.LimitConfig{
		{Discipline: "100m", GlobalLimit: "n.a."},
		{Discipline: "100m ", GlobalLimit: "10.00"},
	}}
	r := NewResolver(spec)

	records := r.Resolve(result(9.90, "M"), spec.Disciplines)
	if len(records) != 1 || records[0].LimitHit != "10.00" {
		t.Errorf("expected the unparsable limit to be skipped, got %v", records)
	}
}
