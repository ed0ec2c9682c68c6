package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"internship-recommender/internal/models"
)

const DefaultTable = "internships"

// PostgresSource loads the catalog from a single table ordered by id.
type PostgresSource struct {
	db      *sql.DB
	table   string
	cleaner *textCleaner
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresSource{db: db, table: table, cleaner: newTextCleaner()}
}

func (s *PostgresSource) Name() string {
	return SourcePostgres
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf(`
		SELECT id, title, company, location, sector, skills_required,
		       stipend, duration_months, remote_available, difficulty_level
		FROM %s
		ORDER BY id`, pq.QuoteIdentifier(s.table))
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]models.InternshipRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, &FetchError{Source: SourcePostgres, Err: err}
	}
	defer rows.Close()

	records := []models.InternshipRecord{}
	for rows.Next() {
		var (
			id, title, company, location, sector, skills, difficulty sql.NullString
			stipend                                                  sql.NullFloat64
			duration                                                 sql.NullInt64
			remote                                                   sql.NullBool
		)
		if err := rows.Scan(&id, &title, &company, &location, &sector, &skills,
			&stipend, &duration, &remote, &difficulty); err != nil {
			return nil, &FetchError{Source: SourcePostgres, Err: fmt.Errorf("scan row: %w", err)}
		}
		records = append(records, s.cleaner.CleanRecord(models.InternshipRecord{
			ID:              models.ID(id.String),
			Title:           title.String,
			Company:         company.String,
			Location:        location.String,
			Sector:          sector.String,
			SkillsRequired:  skills.String,
			Stipend:         stipend.Float64,
			DurationMonths:  int(duration.Int64),
			RemoteAvailable: remote.Bool,
			DifficultyLevel: difficulty.String,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Source: SourcePostgres, Err: err}
	}
	return records, nil
}
