// cmd/eligibility-service/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eb2niw-assessor/internal/api"
	"eb2niw-assessor/internal/assessment"
	"eb2niw-assessor/internal/common/auth"
	"eb2niw-assessor/internal/common/aws"
	"eb2niw-assessor/internal/common/camunda"
	"eb2niw-assessor/internal/common/config"
	"eb2niw-assessor/internal/common/database"
	apperrors "eb2niw-assessor/internal/common/errors"
	"eb2niw-assessor/internal/common/logger"
	"eb2niw-assessor/internal/common/observability"
	"eb2niw-assessor/internal/eligibility"

	ae "eb2niw-assessor/internal/workers/assessment/assess-eligibility"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		zapLog.Warn("falling back to default log output", zap.Error(err))
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting eligibility service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---
	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("metrics exporter unavailable", zap.Error(err))
	}
	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.Tracing.JaegerEndpoint, cfg.App.Version); err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
		} else {
			zapLog.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.JaegerEndpoint))
		}
	}

	// --- Scoring engine ---
	scoring, err := eligibility.LoadConfig(cfg.Scoring.TablesPath)
	if err != nil {
		stdErr := apperrors.NewConfigurationInvalidError(err)
		zapLog.Fatal("scoring tables invalid",
			zap.String("errorCode", string(stdErr.Code)), zap.String("details", stdErr.Details))
	}
	if cfg.Scoring.MaxRecommendations > 0 {
		scoring.Recommendations.Max = cfg.Scoring.MaxRecommendations
	}
	engine, err := eligibility.New(scoring)
	if err != nil {
		zapLog.Fatal("scoring engine construction failed", zap.Error(err))
	}
	zapLog.Info("Scoring engine ready", zap.String("tables", tablesSource(cfg.Scoring.TablesPath)))

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = database.ConnectWithRetry(ctx, 15, 2*time.Second, func(ctx context.Context) error {
		var err error
		if pg == nil {
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
		}
		err = pg.Ping(ctx)
		if err != nil {
			zapLog.Warn("PostgreSQL connection failed, retrying...", zap.Error(err))
		}
		return err
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	repo := assessment.NewPostgresRepository(pg)
	if err := repo.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	// --- Redis ---
	redisClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis client failed", zap.Error(err))
	}
	err = database.ConnectWithRetry(ctx, 10, 2*time.Second, func(ctx context.Context) error {
		err := redisClient.Ping(ctx)
		if err != nil {
			zapLog.Warn("Redis connection failed, retrying...", zap.Error(err))
		}
		return err
	})
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	opts := []assessment.Option{
		assessment.WithRepository(repo),
		assessment.WithPersistTimeout(config.GetDuration(cfg.Assessment.PersistTimeout)),
		assessment.WithHistoryLimit(cfg.Assessment.HistoryLimit),
		assessment.WithIDGenerator(uuid.NewString),
	}
	if obs != nil {
		opts = append(opts, assessment.WithTelemetry(obs))
	}
	if cfg.Assessment.CacheTTL > 0 {
		opts = append(opts, assessment.WithCache(
			assessment.NewRedisResultCache(redisClient.Client, config.GetDuration(cfg.Assessment.CacheTTL)),
		))
	}

	serverOpts := []api.Option{
		api.WithRateLimiter(api.NewRateLimiter(redisClient.Client, time.Minute), cfg.Assessment.RateLimits),
		api.WithCORSOrigins(cfg.Server.CORSOrigins),
		api.WithReadinessCheck("postgres", pg.Ping),
		api.WithReadinessCheck("redis", redisClient.Ping),
	}

	// --- Elasticsearch (optional) ---
	if cfg.Database.Elasticsearch.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		err = database.ConnectWithRetry(ctx, 15, 2*time.Second, esClient.Ping)
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		index := cfg.Database.Elasticsearch.Index
		if err := esClient.EnsureIndex(ctx, index, assessment.IndexMapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err), zap.String("index", index))
		}
		opts = append(opts, assessment.WithIndexer(assessment.NewSearchIndexer(esClient.Client, index)))
		serverOpts = append(serverOpts, api.WithReadinessCheck("elasticsearch", esClient.Ping))
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", index))
	}

	// --- AWS notifications (optional) ---
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
		sdkCfg, err := aws.LoadConfig(ctx, awsCfg.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if awsCfg.SES.Enabled {
			opts = append(opts, assessment.WithMailer(
				assessment.NewSESSummaryMailer(aws.NewSESClient(sdkCfg, awsCfg.SES.FromEmail)),
			))
			zapLog.Info("SES summary mail enabled", zap.String("from", awsCfg.SES.FromEmail))
		}
		if awsCfg.SNS.Enabled {
			opts = append(opts, assessment.WithEventPublisher(
				assessment.NewSNSEventPublisher(aws.NewSNSClient(sdkCfg, awsCfg.SNS.TopicARN)),
			))
			zapLog.Info("SNS assessment events enabled", zap.String("topic", awsCfg.SNS.TopicARN))
		}
	}

	// --- Keycloak (optional) ---
	if kc := cfg.Auth.Keycloak; kc.URL != "" {
		serverOpts = append(serverOpts, api.WithIdentityResolver(
			auth.NewKeycloakClient(kc.URL, kc.Realm, kc.ClientID, kc.ClientSecret),
		))
		zapLog.Info("Bearer identity resolution enabled", zap.String("realm", kc.Realm))
	}

	service := assessment.NewService(engine, log, opts...)

	// --- Zeebe worker (optional) ---
	var zeebe *camunda.Client
	var assessWorker *camunda.CamundaWorker
	if cfg.Camunda.Enabled && config.IsWorkerEnabled(cfg, ae.TaskType) {
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
			RetryConfig: &camunda.RetryConfig{
				MaxRetries: 10,
				BaseDelay:  2 * time.Second,
				MaxDelay:   30 * time.Second,
			},
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		wcfg := config.GetWorkerConfig(cfg, ae.TaskType)
		handler := ae.NewHandler(&ae.Config{Timeout: config.GetDuration(wcfg.Timeout)}, service, log)
		if obs != nil {
			handler.WithJobRecorder(obs)
		}
		assessWorker = camunda.NewWorker(
			zeebe.GetClient(), ae.TaskType, wcfg.MaxJobsActive,
			config.GetDuration(cfg.Camunda.Timeout), handler, log,
		)
		serverOpts = append(serverOpts, api.WithReadinessCheck("zeebe", zeebe.HealthCheck))
	}

	// --- HTTP API ---
	server := api.NewServer(service, log, serverOpts...)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe(cfg.Server)
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping service...")
	case err := <-serveErr:
		if err != nil {
			zapLog.Error("HTTP API failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP API", zap.Error(err))
	}
	if assessWorker != nil {
		assessWorker.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	service.Wait()
	if obs != nil {
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error flushing telemetry", zap.Error(err))
		}
	}

	zapLog.Info("Eligibility service stopped gracefully")
}

func tablesSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
