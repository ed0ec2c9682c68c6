package catalog

import (
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"internship-recommender/internal/common/config"
)

// Backends carries the already-connected clients a source may need. Only the
// one matching the configured source has to be set.
type Backends struct {
	Postgres      *sql.DB
	Elasticsearch *elasticsearch.Client
}

// NewSource picks the source named by cfg.Source.
func NewSource(cfg config.CatalogConfig, backends Backends) (Source, error) {
	switch cfg.Source {
	case SourceCSV, "":
		return NewCSVSource(cfg.CSVPath), nil
	case SourcePostgres:
		if backends.Postgres == nil {
			return nil, fmt.Errorf("catalog source %q requires a postgres connection", cfg.Source)
		}
		return NewPostgresSource(backends.Postgres, cfg.Table), nil
	case SourceElasticsearch:
		if backends.Elasticsearch == nil {
			return nil, fmt.Errorf("catalog source %q requires an elasticsearch client", cfg.Source)
		}
		return NewElasticsearchSource(backends.Elasticsearch, cfg.Index, cfg.SortField, cfg.MaxDocuments), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Source)
	}
}
