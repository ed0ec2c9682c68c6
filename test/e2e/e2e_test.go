// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-recommender/internal/catalog"
	"internship-recommender/internal/common/camunda"
	"internship-recommender/internal/common/config"
	"internship-recommender/internal/common/database"
	"internship-recommender/internal/common/logger"
	"internship-recommender/internal/common/observability"
	"internship-recommender/internal/common/validation"
	"internship-recommender/internal/models"
	"internship-recommender/internal/recommender"
	"internship-recommender/internal/service"
	"internship-recommender/pkg/registry"

	rc "internship-recommender/internal/workers/catalog/reload-catalog"
	asg "internship-recommender/internal/workers/recommendation/analyze-skill-gap"
	bi "internship-recommender/internal/workers/recommendation/browse-internships"
	ri "internship-recommender/internal/workers/recommendation/recommend-internships"
)

// The suite talks to real services. Set E2E_ZEEBE_ADDRESS (and optionally
// E2E_POSTGRES=1, E2E_ELASTICSEARCH=1) to run it; benchmarks need nothing.

// ==========================
// Test Helper Functions
// ==========================

func sampleCatalogPath(tb testing.TB) string {
	tb.Helper()
	for _, p := range []string{"data/internships.csv", "../data/internships.csv", "../../data/internships.csv"} {
		if _, err := os.Stat(p); err == nil {
			abs, _ := filepath.Abs(p)
			return abs
		}
	}
	tb.Fatalf("sample catalog not found")
	return ""
}

func sampleCatalog(tb testing.TB) []models.InternshipRecord {
	tb.Helper()
	records, err := catalog.NewCSVSource(sampleCatalogPath(tb)).Fetch(context.Background())
	require.NoError(tb, err)
	require.NotEmpty(tb, records)
	return records
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func requireEnv(t *testing.T, key string) string {
	t.Helper()
	val := os.Getenv(key)
	if val == "" {
		t.Skipf("%s not set, skipping", key)
	}
	return val
}

func newService(t *testing.T, src catalog.Source) *service.Service {
	t.Helper()
	svc := service.New(service.Options{
		Source:        src,
		Observability: observability.NewNoop(),
		Logger:        logger.NewTestLogger(t),
	})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	return svc
}

func byID(records []models.InternshipRecord) map[models.ID]models.InternshipRecord {
	out := make(map[models.ID]models.InternshipRecord, len(records))
	for _, r := range records {
		out[r.ID] = r.WithDefaults()
	}
	return out
}

// ==========================
// 1. Catalog Sources
// ==========================

func TestPostgresSource_E2E(t *testing.T) {
	requireEnv(t, "E2E_POSTGRES")
	cfg := loadConfig(t)
	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	table := fmt.Sprintf("internships_e2e_%d", time.Now().UnixNano())
	quoted := pq.QuoteIdentifier(table)
	_, err = pg.DB.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			id               INTEGER PRIMARY KEY,
			title            TEXT NOT NULL,
			company          TEXT,
			location         TEXT,
			sector           TEXT,
			skills_required  TEXT,
			stipend          DOUBLE PRECISION,
			duration_months  INTEGER,
			remote_available BOOLEAN,
			difficulty_level TEXT
		)`, quoted))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pg.DB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted))
	})

	records := sampleCatalog(t)
	for _, r := range records {
		_, err := pg.DB.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`, quoted),
			r.ID.String(), r.Title, r.Company, r.Location, r.Sector, r.SkillsRequired,
			r.Stipend, r.DurationMonths, r.RemoteAvailable, r.DifficultyLevel)
		require.NoError(t, err)
	}

	fromCSV := newService(t, catalog.NewStaticSource(records))
	fromPG := newService(t, catalog.NewPostgresSource(pg.DB, table))

	csvSnap, err := fromCSV.Snapshot()
	require.NoError(t, err)
	pgSnap, err := fromPG.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, csvSnap.Version, pgSnap.Version, "integer ids keep catalog order, so both fits must agree")
}

func TestElasticsearchSource_E2E(t *testing.T) {
	requireEnv(t, "E2E_ELASTICSEARCH")
	cfg := loadConfig(t)
	ctx := context.Background()

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")

	index := fmt.Sprintf("internships-e2e-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		res, err := es.Client.Indices.Delete([]string{index})
		if err == nil {
			res.Body.Close()
		}
	})

	records := sampleCatalog(t)
	var bulk bytes.Buffer
	for _, r := range records {
		fmt.Fprintf(&bulk, `{"index":{"_index":%q,"_id":%q}}`+"\n", index, r.ID.String())
		doc, err := json.Marshal(r)
		require.NoError(t, err)
		bulk.Write(doc)
		bulk.WriteByte('\n')
	}
	res, err := es.Client.Bulk(bytes.NewReader(bulk.Bytes()),
		es.Client.Bulk.WithContext(ctx),
		es.Client.Bulk.WithRefresh("true"),
	)
	require.NoError(t, err)
	require.False(t, res.IsError(), res.String())
	res.Body.Close()

	fetched, err := catalog.NewElasticsearchSource(es.Client, index, "", len(records)).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, byID(records), byID(fetched))
}

// ==========================
// 2. Workers Through Zeebe
// ==========================

const processTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"
                  xmlns:zeebe="http://camunda.org/schema/zeebe/1.0"
                  id="definitions-%[1]s" targetNamespace="http://bpmn.io/schema/bpmn">
  <bpmn:process id="%[1]s" isExecutable="true">
    <bpmn:startEvent id="start"/>
    <bpmn:sequenceFlow id="to-task" sourceRef="start" targetRef="task"/>
    <bpmn:serviceTask id="task">
      <bpmn:extensionElements>
        <zeebe:taskDefinition type="%[2]s"/>
      </bpmn:extensionElements>
    </bpmn:serviceTask>
    <bpmn:sequenceFlow id="to-end" sourceRef="task" targetRef="end"/>
    <bpmn:endEvent id="end"/>
  </bpmn:process>
</bpmn:definitions>`

func processID(taskType string) string {
	return "e2e-" + taskType
}

func deployProcesses(t *testing.T, client *camunda.Client, taskTypes ...string) {
	t.Helper()
	for _, taskType := range taskTypes {
		xml := fmt.Sprintf(processTemplate, processID(taskType), taskType)
		_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
			return client.GetClient().NewDeployResourceCommand().
				AddResource([]byte(xml), processID(taskType)+".bpmn").
				Send(ctx)
		}, "deploy "+taskType)
		require.NoError(t, err, "deploy %s", taskType)
	}
}

func runProcess(t *testing.T, client zbc.Client, taskType string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, err := client.NewCreateInstanceCommand().
		BPMNProcessId(processID(taskType)).
		LatestVersion().
		VariablesFromMap(vars)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err, "run %s", taskType)

	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &out))
	return out
}

func TestWorkers_E2E(t *testing.T) {
	addr := requireEnv(t, "E2E_ZEEBE_ADDRESS")

	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         addr,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
	})
	require.NoError(t, err, "Zeebe connection failed")
	defer zeebe.Close()
	require.NoError(t, zeebe.HealthCheck(context.Background()))

	log := logger.NewTestLogger(t)
	svc := newService(t, catalog.NewCSVSource(sampleCatalogPath(t)))
	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)
	obs := observability.NewNoop()

	workerCfg := config.WorkerConfig{Enabled: true, MaxJobsActive: 4, Timeout: 10000}
	handlers := map[string]camunda.JobHandler{
		ri.TaskType:  ri.NewHandler(&ri.Config{Timeout: 10 * time.Second}, svc, validator, obs, log),
		asg.TaskType: asg.NewHandler(&asg.Config{Timeout: 10 * time.Second}, svc, validator, obs, log),
		bi.TaskType:  bi.NewHandler(&bi.Config{Timeout: 10 * time.Second}, svc, validator, obs, log),
		rc.TaskType:  rc.NewHandler(&rc.Config{Timeout: 10 * time.Second}, svc, validator, obs, log),
	}
	for taskType, h := range handlers {
		w := camunda.StartWorker(zeebe.GetClient(), taskType, workerCfg, h, log)
		defer w.Stop()
	}
	deployProcesses(t, zeebe, ri.TaskType, asg.TaskType, bi.TaskType, rc.TaskType)

	t.Run(ri.TaskType, func(t *testing.T) {
		out := runProcess(t, zeebe.GetClient(), ri.TaskType, map[string]interface{}{
			"candidateId": "e2e-candidate",
			"candidateProfile": map[string]interface{}{
				"skills":          "python, sql",
				"interests":       "data analysis",
				"preferredSector": "Technology",
			},
			"topN": 3,
		})
		recs, ok := out["recommendations"].([]interface{})
		require.True(t, ok)
		require.Len(t, recs, 3)
		first := recs[0].(map[string]interface{})
		assert.Equal(t, "1", first["internshipId"])
		assert.NotEmpty(t, out["recommendationId"])
		assert.EqualValues(t, 3, out["totalCount"])
	})

	t.Run(asg.TaskType, func(t *testing.T) {
		out := runProcess(t, zeebe.GetClient(), asg.TaskType, map[string]interface{}{
			"candidateSkills": "python",
			"internshipId":    4,
		})
		assert.Equal(t, "Python Developer Intern", out["internshipTitle"])
		gap := out["skillGap"].(map[string]interface{})
		assert.ElementsMatch(t, []interface{}{"git", "programming"}, gap["missingSkills"])
	})

	t.Run(bi.TaskType, func(t *testing.T) {
		out := runProcess(t, zeebe.GetClient(), bi.TaskType, map[string]interface{}{
			"sector":  "technology",
			"perPage": 2,
		})
		page := out["pagination"].(map[string]interface{})
		assert.EqualValues(t, 3, page["total"])
		assert.EqualValues(t, 2, page["totalPages"])
		assert.Len(t, out["internships"], 2)
	})

	t.Run(rc.TaskType, func(t *testing.T) {
		out := runProcess(t, zeebe.GetClient(), rc.TaskType, map[string]interface{}{})
		assert.Equal(t, catalog.SourceCSV, out["source"])
		assert.EqualValues(t, len(sampleCatalog(t)), out["recordCount"])
		assert.Equal(t, false, out["changed"])
	})
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkIndexLoad_SampleCatalog(b *testing.B) {
	records := sampleCatalog(b)
	ix := recommender.NewIndex()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ix.Load(records); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHandler_RecommendInternships(b *testing.B) {
	svc := service.New(service.Options{
		Source: catalog.NewStaticSource(sampleCatalog(b)),
		Logger: logger.NewNoOpLogger(),
	})
	if _, err := svc.Reload(context.Background()); err != nil {
		b.Fatal(err)
	}
	handler := ri.NewHandler(&ri.Config{Timeout: 5 * time.Second}, svc, nil, observability.NewNoop(), logger.NewNoOpLogger())

	input := &ri.Input{
		CandidateProfile: models.CandidateProfile{
			Skills:             "python, excel, communication",
			Interests:          "data, marketing",
			PreferredSector:    "Technology",
			PreferredLocations: strings.Join([]string{"Bangalore", "Pune"}, " "),
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := handler.Execute(context.Background(), input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHandler_AnalyzeSkillGap(b *testing.B) {
	svc := service.New(service.Options{
		Source: catalog.NewStaticSource(sampleCatalog(b)),
		Logger: logger.NewNoOpLogger(),
	})
	if _, err := svc.Reload(context.Background()); err != nil {
		b.Fatal(err)
	}
	handler := asg.NewHandler(&asg.Config{Timeout: 5 * time.Second}, svc, nil, observability.NewNoop(), logger.NewNoOpLogger())
	input := &asg.Input{CandidateSkills: "python, sql", InternshipID: "7"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := handler.Execute(context.Background(), input); err != nil {
			b.Fatal(err)
		}
	}
}
