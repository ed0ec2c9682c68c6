// Package catalog reads internship records from the configured backing store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"internship-recommender/internal/models"
)

const (
	SourceCSV           = "csv"
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
	SourceStatic        = "static"
)

var ErrUnknownSource = errors.New("unknown catalog source")

// Source fetches the full catalog. Implementations return records in a
// stable order since ranking ties fall back to catalog order.
type Source interface {
	Fetch(ctx context.Context) ([]models.InternshipRecord, error)
	Name() string
}

// StaticSource serves a fixed in-memory catalog.
type StaticSource struct {
	records []models.InternshipRecord
}

func NewStaticSource(records []models.InternshipRecord) *StaticSource {
	return &StaticSource{records: records}
}

func (s *StaticSource) Fetch(ctx context.Context) ([]models.InternshipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.InternshipRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *StaticSource) Name() string {
	return SourceStatic
}

// FetchError wraps a failure inside a source so callers can tell source
// problems apart from catalog content problems.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch catalog from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
