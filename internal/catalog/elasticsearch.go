package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"internship-recommender/internal/models"
)

const (
	DefaultIndex        = "internships"
	DefaultMaxDocuments = 10000
)

// ElasticsearchSource loads the catalog with a match_all search. When a sort
// field is configured the hits come back in that order, otherwise in the
// index's natural order.
type ElasticsearchSource struct {
	client    *elasticsearch.Client
	index     string
	sortField string
	size      int
	cleaner   *textCleaner
}

func NewElasticsearchSource(client *elasticsearch.Client, index, sortField string, size int) *ElasticsearchSource {
	if index == "" {
		index = DefaultIndex
	}
	if size <= 0 {
		size = DefaultMaxDocuments
	}
	return &ElasticsearchSource{client: client, index: index, sortField: sortField, size: size, cleaner: newTextCleaner()}
}

func (s *ElasticsearchSource) Name() string {
	return SourceElasticsearch
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                  `json:"_id"`
			Source models.InternshipRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) buildQuery() ([]byte, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}
	if s.sortField != "" {
		body["sort"] = []interface{}{
			map[string]interface{}{s.sortField: map[string]interface{}{"order": "asc"}},
		}
	}
	return json.Marshal(body)
}

func (s *ElasticsearchSource) Fetch(ctx context.Context) ([]models.InternshipRecord, error) {
	body, err := s.buildQuery()
	if err != nil {
		return nil, &FetchError{Source: SourceElasticsearch, Err: err}
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(s.size),
	)
	if err != nil {
		return nil, &FetchError{Source: SourceElasticsearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &FetchError{Source: SourceElasticsearch, Err: fmt.Errorf("search error: %s", res.Status())}
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, &FetchError{Source: SourceElasticsearch, Err: fmt.Errorf("decode response: %w", err)}
	}

	records := make([]models.InternshipRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		r := hit.Source
		if r.ID == "" {
			r.ID = models.ID(hit.ID)
		}
		records = append(records, s.cleaner.CleanRecord(r))
	}
	return records, nil
}
