// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"internship-recommender/internal/cache"
	"internship-recommender/internal/catalog"
	"internship-recommender/internal/common/aws"
	"internship-recommender/internal/common/camunda"
	"internship-recommender/internal/common/config"
	"internship-recommender/internal/common/database"
	"internship-recommender/internal/common/logger"
	"internship-recommender/internal/common/observability"
	"internship-recommender/internal/common/validation"
	"internship-recommender/internal/service"
	"internship-recommender/pkg/registry"

	// Catalog Workers (1)
	rc "internship-recommender/internal/workers/catalog/reload-catalog"

	// Recommendation Workers (3)
	asg "internship-recommender/internal/workers/recommendation/analyze-skill-gap"
	bi "internship-recommender/internal/workers/recommendation/browse-internships"
	ri "internship-recommender/internal/workers/recommendation/recommend-internships"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// backends holds the infrastructure connections opened for this process.
type backends struct {
	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	redis *database.RedisClient
}

func (b *backends) catalog() catalog.Backends {
	var out catalog.Backends
	if b.pg != nil {
		out.Postgres = b.pg.DB
	}
	if b.es != nil {
		out.Elasticsearch = b.es.Client
	}
	return out
}

func (b *backends) Close() {
	if b.pg != nil {
		_ = b.pg.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// pinger is a backend client that can verify its server is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

// connectWithRetry opens a client once and retries only the Ping, so failed
// attempts do not leave pools behind. A client that never answers is closed.
func connectWithRetry[T pinger](ctx context.Context, open func() (T, error), maxRetries int, delay time.Duration, log logger.Logger, name string) (T, error) {
	var zero T
	client, err := open()
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	err = retryWithBackoff(func() error {
		return client.Ping(ctx)
	}, maxRetries, delay, log, name)
	if err != nil {
		if c, ok := any(client).(io.Closer); ok {
			_ = c.Close()
		}
		return zero, err
	}
	return client, nil
}

// connectBackends opens only the stores the configured catalog source and
// recommendation cache need.
func connectBackends(ctx context.Context, cfg *config.Config, log logger.Logger) (*backends, error) {
	b := &backends{}
	var err error

	if cfg.Catalog.Source == catalog.SourcePostgres {
		b.pg, err = connectWithRetry(ctx, func() (*database.PostgresClient, error) {
			return database.NewPostgres(cfg.Database.Postgres)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return b, err
		}
		log.Info("PostgreSQL connected successfully", nil)
	}

	if cfg.Catalog.Source == catalog.SourceElasticsearch {
		b.es, err = connectWithRetry(ctx, func() (*database.ElasticsearchClient, error) {
			return database.NewElasticsearch(cfg.Database.Elasticsearch)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			return b, err
		}
		log.Info("Elasticsearch connected successfully", nil)
	}

	if cfg.Recommender.CacheEnabled {
		b.redis, err = connectWithRetry(ctx, func() (*database.RedisClient, error) {
			return database.NewRedis(cfg.Database.Redis), nil
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return b, err
		}
		log.Info("Redis connected successfully", nil)
	}

	return b, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	log, zapLog, err := logger.NewFromConfig(cfg.Logging, cfg.App)
	if err != nil {
		zapLog = logger.New("info", "console")
		zapLog.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()

	log.Info("Starting worker manager...", map[string]interface{}{
		"catalogSource": cfg.Catalog.Source,
		"cacheEnabled":  cfg.Recommender.CacheEnabled,
	})

	obs, err := observability.New(cfg.App.Name, prometheus.DefaultRegisterer)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	// --- Init Catalog Backends ---
	stores, err := connectBackends(ctx, cfg, log)
	defer stores.Close()
	if err != nil {
		zapLog.Fatal("backend connection failed after retries", zap.Error(err))
	}

	source, err := catalog.NewSource(cfg.Catalog, stores.catalog())
	if err != nil {
		zapLog.Fatal("catalog source init failed", zap.Error(err))
	}

	var recCache *cache.RecommendationCache
	if stores.redis != nil {
		recCache = cache.NewRecommendationCache(stores.redis.Client, config.GetDuration(cfg.Recommender.CacheTTL))
	}

	var notifier service.CatalogNotifier
	if cfg.Notify.SNSTopicARN != "" {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notify.Region, cfg.Notify.SNSTopicARN)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		notifier = snsClient
		log.Info("catalog change notifications enabled", map[string]interface{}{
			"topicArn": cfg.Notify.SNSTopicARN,
		})
	}

	svc := service.New(service.Options{
		Source:        source,
		Cache:         recCache,
		Notifier:      notifier,
		Observability: obs,
		Logger:        log,
		DefaultTopN:   cfg.Recommender.DefaultTopN,
	})

	// The workers start even when the first load fails; they report
	// CATALOG_NOT_LOADED until a reload succeeds.
	if _, err := svc.Reload(ctx); err != nil {
		log.Warn("initial catalog load failed", map[string]interface{}{"error": err.Error()})
	}
	go svc.RunReloader(ctx, config.GetDuration(cfg.Catalog.ReloadInterval))

	reg, err := registry.Default()
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schema compilation failed", zap.Error(err))
	}

	// --- Register Workers ---
	handlers := map[string]camunda.JobHandler{
		ri.TaskType:  ri.NewHandler(ri.LoadConfig(cfg), svc, validator, obs, log),
		asg.TaskType: asg.NewHandler(asg.LoadConfig(cfg), svc, validator, obs, log),
		bi.TaskType:  bi.NewHandler(bi.LoadConfig(cfg), svc, validator, obs, log),
		rc.TaskType:  rc.NewHandler(rc.LoadConfig(cfg), svc, validator, obs, log),
	}

	var workers []*camunda.Worker
	for _, taskType := range []string{ri.TaskType, asg.TaskType, bi.TaskType, rc.TaskType} {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			continue
		}
		workers = append(workers, camunda.StartWorker(
			zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handlers[taskType], log,
		))
	}
	started := make([]string, 0, len(workers))
	for _, w := range workers {
		started = append(started, w.TaskType())
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers), "taskTypes": started})

	// --- Health & Metrics Server ---
	server := newHealthServer(cfg.Server.Port, svc, zeebe.HealthCheck)
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
}
