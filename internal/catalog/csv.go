package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"internship-recommender/internal/models"
)

var ErrMissingTitleColumn = errors.New("csv header has no title column")

// CSVSource reads a catalog file with a header row. Columns are matched by
// name, so extra or reordered columns are fine.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return SourceCSV
}

func (s *CSVSource) Fetch(ctx context.Context) ([]models.InternshipRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &FetchError{Source: SourceCSV, Err: err}
	}
	defer f.Close()

	records, err := ParseCSV(ctx, f)
	if err != nil {
		return nil, &FetchError{Source: SourceCSV, Err: err}
	}
	return records, nil
}

// ParseCSV decodes catalog rows from r. Numeric and boolean columns that do
// not parse are left at their zero value.
func ParseCSV(ctx context.Context, r io.Reader) ([]models.InternshipRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []models.InternshipRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, ErrMissingTitleColumn
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := []models.InternshipRecord{}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		records = append(records, models.InternshipRecord{
			ID:              models.ID(field(row, "id")),
			Title:           field(row, "title"),
			Company:         field(row, "company"),
			Location:        field(row, "location"),
			Sector:          field(row, "sector"),
			SkillsRequired:  field(row, "skills_required"),
			Stipend:         parseFloat(field(row, "stipend")),
			DurationMonths:  parseInt(field(row, "duration_months")),
			RemoteAvailable: parseBool(field(row, "remote_available")),
			DifficultyLevel: field(row, "difficulty_level"),
		})
	}
	return records, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// "3.0" from spreadsheet exports
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}
