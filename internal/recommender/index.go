// Package recommender holds the catalog index and the ranking operations
// that run against it.
package recommender

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"internship-recommender/internal/models"
	"internship-recommender/internal/recommender/tfidf"
)

// Snapshot is one fitted catalog. It is never modified after publication, so
// readers can use it without locking.
type Snapshot struct {
	Records    []models.InternshipRecord
	Vectorizer *tfidf.Vectorizer
	Matrix     []tfidf.Vector
	Version    string
	LoadedAt   time.Time

	byID map[models.ID]int
}

// Size is the number of catalog records.
func (s *Snapshot) Size() int {
	return len(s.Records)
}

// Lookup finds a record by id.
func (s *Snapshot) Lookup(id models.ID) (models.InternshipRecord, error) {
	pos, ok := s.byID[id]
	if !ok {
		return models.InternshipRecord{}, &DataError{Op: "lookup", Detail: "id " + id.String(), Err: ErrInternshipNotFound}
	}
	return s.Records[pos], nil
}

// Index publishes fitted snapshots. Load is the single writer; Snapshot may be
// called from any number of goroutines.
type Index struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

func NewIndex() *Index {
	return &Index{}
}

// Load fits a new snapshot over records and publishes it. On error the
// previously published snapshot stays in place.
func (ix *Index) Load(records []models.InternshipRecord) (*Snapshot, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	snap, err := Build(records)
	if err != nil {
		return nil, err
	}
	ix.current.Store(snap)
	return snap, nil
}

// Snapshot returns the published snapshot or a StateError when nothing has
// been loaded yet.
func (ix *Index) Snapshot() (*Snapshot, error) {
	snap := ix.current.Load()
	if snap == nil {
		return nil, &StateError{Op: "snapshot", Err: ErrNotLoaded}
	}
	return snap, nil
}

// Loaded reports whether a snapshot has been published.
func (ix *Index) Loaded() bool {
	return ix.current.Load() != nil
}

// Build fits a snapshot without publishing it.
func Build(records []models.InternshipRecord) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, &DataError{Op: "load", Err: ErrEmptyCatalog}
	}

	owned := make([]models.InternshipRecord, len(records))
	byID := make(map[models.ID]int, len(records))
	docs := make([]string, len(records))
	hash := sha256.New()

	for i, r := range records {
		r = r.WithDefaults()
		if r.ID == "" {
			r.ID = models.ID(strconv.Itoa(i))
		}
		if _, dup := byID[r.ID]; dup {
			return nil, &DataError{Op: "load", Detail: "id " + r.ID.String(), Err: ErrDuplicateID}
		}
		byID[r.ID] = i
		owned[i] = r
		docs[i] = r.CombinedText()

		hash.Write([]byte(r.ID))
		hash.Write([]byte{0})
		hash.Write([]byte(docs[i]))
		hash.Write([]byte{0})
	}

	vectorizer, matrix, err := tfidf.Fit(docs)
	if err != nil {
		if errors.Is(err, tfidf.ErrEmptyVocabulary) {
			return nil, &DataError{Op: "load", Err: ErrEmptyVocabulary}
		}
		return nil, err
	}

	return &Snapshot{
		Records:    owned,
		Vectorizer: vectorizer,
		Matrix:     matrix,
		Version:    hex.EncodeToString(hash.Sum(nil))[:16],
		LoadedAt:   time.Now().UTC(),
		byID:       byID,
	}, nil
}
