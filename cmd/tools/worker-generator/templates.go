// cmd/tools/worker-generator/templates.go
package main

const configTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/config.go
package {{ .PackageName }}

import (
	"time"

	"{{ .Module }}/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/models.go
package {{ .PackageName }}

type Input struct {
{{ fields .InputSchema }}
}

type Output struct {
{{ fields .OutputSchema }}
}
`

const handlerTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/metrics"
	"{{ .Module }}/internal/common/observability"
	"{{ .Module }}/internal/common/validation"
	"{{ .Module }}/internal/service"
)

const (
	TaskType = "{{ .TaskType }}"
)

// {{ .Description }}
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
	return nil, errors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
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
`

const testTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"{{ .Module }}/internal/catalog"
	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/observability"
	"{{ .Module }}/internal/common/validation"
	"{{ .Module }}/internal/models"
	"{{ .Module }}/internal/service"
	"{{ .Module }}/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	svc := service.New(service.Options{
		Source: catalog.NewStaticSource([]models.InternshipRecord{
			{ID: "1", Title: "Data Analyst Intern", Company: "Infosys", SkillsRequired: "python, sql"},
		}),
		Observability: observability.NewNoop(),
		Logger:        log,
	})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return NewHandler(&Config{Timeout: {{ .TimeoutLiteral }}}, svc, validator, observability.NewNoop(), log)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.Nil(t, output)
}
`
