// Package service owns the catalog index and cache and exposes the
// operations the job workers call.
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"internship-recommender/internal/cache"
	"internship-recommender/internal/catalog"
	"internship-recommender/internal/common/aws"
	"internship-recommender/internal/common/logger"
	"internship-recommender/internal/common/metrics"
	"internship-recommender/internal/common/observability"
	"internship-recommender/internal/models"
	"internship-recommender/internal/recommender"
	"internship-recommender/internal/recommender/skillgap"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// CatalogNotifier is told about every reload that changes the catalog.
type CatalogNotifier interface {
	PublishCatalogChanged(ctx context.Context, event aws.CatalogEvent) (string, error)
}

type Options struct {
	Index         *recommender.Index
	Source        catalog.Source
	Cache         *cache.RecommendationCache
	Notifier      CatalogNotifier
	Observability *observability.Observability
	Logger        logger.Logger
	DefaultTopN   int
}

type Service struct {
	index       *recommender.Index
	source      catalog.Source
	cache       *cache.RecommendationCache
	notifier    CatalogNotifier
	obs         *observability.Observability
	logger      logger.Logger
	defaultTopN int
}

func New(opts Options) *Service {
	if opts.Index == nil {
		opts.Index = recommender.NewIndex()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = recommender.DefaultTopN
	}
	return &Service{
		index:       opts.Index,
		source:      opts.Source,
		cache:       opts.Cache,
		notifier:    opts.Notifier,
		obs:         opts.Observability,
		logger:      opts.Logger.WithFields(map[string]interface{}{"component": "service"}),
		defaultTopN: opts.DefaultTopN,
	}
}

// Ready reports whether an index snapshot has been published.
func (s *Service) Ready() bool {
	return s.index.Loaded()
}

func (s *Service) DefaultTopN() int {
	return s.defaultTopN
}

// Snapshot returns the currently published index snapshot.
func (s *Service) Snapshot() (*recommender.Snapshot, error) {
	return s.index.Snapshot()
}

func (s *Service) SourceName() string {
	return s.source.Name()
}

// Reload fetches the catalog from the source and publishes a new index. On
// failure the current index keeps serving.
func (s *Service) Reload(ctx context.Context) (snap *recommender.Snapshot, err error) {
	ctx, span := s.obs.StartSpan(ctx, "catalog.reload", attribute.String("source", s.source.Name()))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	records, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues(s.source.Name(), "fetch_error").Inc()
		s.logger.Error("catalog fetch failed", map[string]interface{}{
			"source": s.source.Name(),
			"error":  err.Error(),
		})
		return nil, err
	}

	var previous string
	if current, err := s.index.Snapshot(); err == nil {
		previous = current.Version
	}

	snap, err = s.index.Load(records)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues(s.source.Name(), "rejected").Inc()
		s.logger.Error("catalog rejected", map[string]interface{}{
			"source":  s.source.Name(),
			"records": len(records),
			"error":   err.Error(),
		})
		return nil, err
	}

	metrics.CatalogLoads.WithLabelValues(s.source.Name(), "success").Inc()
	metrics.CatalogSize.Set(float64(snap.Size()))
	metrics.CatalogVocabularySize.Set(float64(snap.Vectorizer.VocabularySize()))
	metrics.CatalogLastLoaded.Set(float64(snap.LoadedAt.Unix()))
	span.SetAttributes(attribute.Int("records", snap.Size()), attribute.String("version", snap.Version))

	s.logger.Info("catalog loaded", map[string]interface{}{
		"source":         s.source.Name(),
		"records":        snap.Size(),
		"vocabularySize": snap.Vectorizer.VocabularySize(),
		"catalogVersion": snap.Version,
		"durationMs":     time.Since(start).Milliseconds(),
	})

	if s.notifier != nil && snap.Version != previous {
		s.notifyChanged(ctx, snap, previous)
	}
	return snap, nil
}

// notifyChanged publishes a change event. Failures are logged only; the new
// index is already serving.
func (s *Service) notifyChanged(ctx context.Context, snap *recommender.Snapshot, previous string) {
	id, err := s.notifier.PublishCatalogChanged(ctx, aws.CatalogEvent{
		Source:          s.source.Name(),
		CatalogVersion:  snap.Version,
		PreviousVersion: previous,
		RecordCount:     snap.Size(),
		LoadedAt:        snap.LoadedAt,
	})
	if err != nil {
		s.logger.Warn("catalog change notification failed", map[string]interface{}{
			"catalogVersion": snap.Version,
			"error":          err.Error(),
		})
		return
	}
	s.logger.Debug("catalog change published", map[string]interface{}{
		"catalogVersion": snap.Version,
		"messageId":      id,
	})
}

// RunReloader reloads the catalog every interval until ctx is done. A zero
// interval disables periodic reloads.
func (s *Service) RunReloader(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// errors are logged inside Reload; the previous index keeps serving
			_, _ = s.Reload(ctx)
		}
	}
}

type RecommendRequest struct {
	CandidateID string
	Profile     models.CandidateProfile
	TopN        *int
}

type RecommendResult struct {
	Recommendations []models.Recommendation
	CatalogVersion  string
	TopN            int
	Cached          bool
}

// Recommend ranks the current index against the profile. Results for a known
// candidate are cached per catalog version; cache failures only cost a
// recomputation.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (result *RecommendResult, err error) {
	topN := s.defaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	ctx, span := s.obs.StartSpan(ctx, "recommender.recommend", attribute.Int("topN", topN))
	defer func() { observability.EndSpan(span, err) }()

	snap, err := s.index.Snapshot()
	if err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil && req.CandidateID != "" {
		key = cache.Key(snap.Version, req.CandidateID, req.Profile, topN)
		cached, ok, cacheErr := s.cache.Get(ctx, key)
		switch {
		case cacheErr != nil:
			metrics.RecommendationCache.WithLabelValues("error").Inc()
			s.logger.Warn("recommendation cache read failed", map[string]interface{}{
				"candidateId": req.CandidateID,
				"error":       cacheErr.Error(),
			})
		case ok:
			metrics.RecommendationCache.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cached", true))
			return &RecommendResult{Recommendations: cached, CatalogVersion: snap.Version, TopN: topN, Cached: true}, nil
		default:
			metrics.RecommendationCache.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	recs := recommender.Rank(snap, req.Profile, topN)
	metrics.RecommendationDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds())

	if key != "" {
		if err := s.cache.Set(ctx, key, recs); err != nil {
			s.logger.Warn("recommendation cache write failed", map[string]interface{}{
				"candidateId": req.CandidateID,
				"error":       err.Error(),
			})
		}
	}

	return &RecommendResult{Recommendations: recs, CatalogVersion: snap.Version, TopN: topN}, nil
}

type SkillGapResult struct {
	Internship        models.InternshipRecord
	Analysis          models.SkillGapAnalysis
	LearningResources []string
}

func (s *Service) SkillGap(ctx context.Context, candidateSkills string, internshipID models.ID) (result *SkillGapResult, err error) {
	_, span := s.obs.StartSpan(ctx, "recommender.skill_gap", attribute.String("internshipId", internshipID.String()))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	record, analysis, err := recommender.SkillGap(s.index, candidateSkills, internshipID)
	if err != nil {
		return nil, err
	}
	metrics.RecommendationDuration.WithLabelValues("skill_gap").Observe(time.Since(start).Seconds())

	return &SkillGapResult{
		Internship:        record,
		Analysis:          analysis,
		LearningResources: skillgap.LearningResources(analysis.MissingSkills),
	}, nil
}

type BrowseRequest struct {
	Sector   string
	Location string
	Page     int
	PerPage  int
}

type BrowseResult struct {
	Internships []models.InternshipRecord
	Page        int
	PerPage     int
	Total       int
	TotalPages  int
	Sectors     []string
	Locations   []string
}

// Browse lists the current catalog filtered by sector and location. Pages
// start at 1; a page past the end is empty.
func (s *Service) Browse(ctx context.Context, req BrowseRequest) (result *BrowseResult, err error) {
	_, span := s.obs.StartSpan(ctx, "catalog.browse")
	defer func() { observability.EndSpan(span, err) }()

	snap, err := s.index.Snapshot()
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	matched := snap.Filter(req.Sector, req.Location)
	total := len(matched)

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &BrowseResult{
		Internships: matched[start:end],
		Page:        page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  (total + perPage - 1) / perPage,
		Sectors:     snap.Sectors(),
		Locations:   snap.Locations(),
	}, nil
}
