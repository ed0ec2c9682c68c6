// internal/workers/recommendation/recommend-internships/handler.go
package recommendinternships

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"internship-recommender/internal/common/errors"
	"internship-recommender/internal/common/logger"
	"internship-recommender/internal/common/metrics"
	"internship-recommender/internal/common/observability"
	"internship-recommender/internal/common/validation"
	"internship-recommender/internal/models"
	"internship-recommender/internal/recommender"
	"internship-recommender/internal/service"
)

const (
	TaskType = "recommend-internships"
)

type Handler struct {
	config       *Config
	service      *service.Service
	validator    *validation.Validator
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, svc *service.Service, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      svc,
		validator:    validator,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job.Variables)
	h.finish(ctx, start, err)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	h.completeJob(client, job, output)
}

// finish records the job outcome in the Prometheus and OpenTelemetry metrics.
func (h *Handler) finish(ctx context.Context, start time.Time, err error) {
	status, code := "success", ""
	if err != nil {
		status, code = "failed", string(errors.FromEngineError(err).Code)
	}
	elapsed := time.Since(start)
	metrics.ObserveJob(TaskType, code, elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	result, err := h.validator.Validate(TaskType, variables)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}

	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.service.Recommend(ctx, service.RecommendRequest{
		CandidateID: input.CandidateID,
		Profile:     input.CandidateProfile,
		TopN:        input.TopN,
	})
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		recs = append(recs, present(r))
	}

	h.logger.Info("ranking completed", map[string]interface{}{
		"candidateId":    input.CandidateID,
		"topN":           result.TopN,
		"returned":       len(recs),
		"cached":         result.Cached,
		"catalogVersion": result.CatalogVersion,
	})

	return &Output{
		RecommendationID: uuid.NewString(),
		CandidateID:      input.CandidateID,
		Recommendations:  recs,
		TotalCount:       len(recs),
		CatalogVersion:   result.CatalogVersion,
		Cached:           result.Cached,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func present(r models.Recommendation) Recommendation {
	return Recommendation{
		InternshipID:         r.InternshipID,
		Title:                r.Title,
		Company:              r.Company,
		Location:             r.Location,
		Sector:               r.Sector,
		Stipend:              r.Stipend,
		Duration:             fmt.Sprintf("%d months", r.DurationMonths),
		DurationMonths:       r.DurationMonths,
		Remote:               r.RemoteAvailable,
		Difficulty:           r.DifficultyLevel,
		MatchScore:           r.MatchScore,
		MatchLevel:           recommender.MatchLevel(r.MatchScore),
		WhyRecommended:       r.WhyRecommended,
		SkillsToLearn:        r.SkillGap.MissingSkills,
		SkillsYouHave:        r.SkillGap.ExistingSkills,
		SkillMatchPercentage: recommender.Round(r.SkillGap.SkillMatchPercentage, 1),
		SkillGap:             r.SkillGap,
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
