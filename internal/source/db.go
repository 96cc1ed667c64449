package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/limitscan/limitscan/internal/model"
	"github.com/limitscan/limitscan/internal/perf"
)

// OpenResultsDB opens the results database read-only.
func OpenResultsDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	return db, nil
}

// DBSource extracts stored results joined with their athlete, discipline,
// category and event, filtered by the specification's result years.
type DBSource struct {
	DB    *sql.DB
	Years []int
}

func (s *DBSource) Name() string { return "database" }

func (s *DBSource) Extract(ctx context.Context) ([]model.RawResult, error) {
	if len(s.Years) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(s.Years))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT a.name, a.birth_year, a.gender,
		       COALESCE(c.code, ''), d.name,
		       r.performance, COALESCE(r.date, ''), e.year
		FROM results r
		JOIN athletes a ON a.id = r.athlete_id
		JOIN disciplines d ON d.id = r.discipline_id
		JOIN events e ON e.id = r.event_id
		LEFT JOIN categories c ON c.id = r.category_id
		WHERE e.year IN (%s)`, placeholders)

	args := make([]any, len(s.Years))
	for i, year := range s.Years {
		args[i] = year
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []model.RawResult
	for rows.Next() {
		var (
			name, gender, category, discipline, performance, date string
			birthYear, year                                       int
		)
		if err := rows.Scan(&name, &birthYear, &gender, &category, &discipline, &performance, &date, &year); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}

		seconds, ok := perf.Normalize(performance)
		if !ok {
			continue
		}

		results = append(results, model.RawResult{
			Source:             model.SourceDB,
			AthleteName:        name,
			BirthYear:          birthYear,
			Gender:             strings.ToUpper(strings.TrimSpace(gender)),
			CategoryDB:         category,
			DisciplineRaw:      discipline,
			PerformanceDisplay: performance,
			PerformanceSeconds: seconds,
			Date:               date,
			Year:               year,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	return results, nil
}
