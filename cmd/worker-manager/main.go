// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifecycle-audit-workers/internal/api"
	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/calculators"
	awsclient "lifecycle-audit-workers/internal/common/aws"
	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/config"
	"lifecycle-audit-workers/internal/common/database"
	"lifecycle-audit-workers/internal/common/events"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/observability"
	"lifecycle-audit-workers/internal/common/zoho"
	"lifecycle-audit-workers/pkg/registry"

	gla "lifecycle-audit-workers/internal/workers/audit/generate-lifecycle-audit"
	iar "lifecycle-audit-workers/internal/workers/audit/index-audit-result"
	pae "lifecycle-audit-workers/internal/workers/audit/publish-audit-event"
	vai "lifecycle-audit-workers/internal/workers/audit/validate-audit-input"
	rc "lifecycle-audit-workers/internal/workers/calculators/run-calculator"
	sar "lifecycle-audit-workers/internal/workers/communication/send-audit-report"
	car "lifecycle-audit-workers/internal/workers/lead/create-audit-record"
	scl "lifecycle-audit-workers/internal/workers/lead/sync-crm-lead"
)

var dependencyRetry = camunda.RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker-manager: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	log, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return err
	}
	log = log.WithFields(map[string]interface{}{"service": cfg.App.Name, "version": cfg.App.Version})
	log.Info("Starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name, cfg.App.Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			log.Warn("Observability shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.UsePlaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		return err
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected", map[string]interface{}{"address": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := connect(ctx, log, "PostgreSQL", func() error {
		if err := pg.Ping(ctx); err != nil {
			return err
		}
		return pg.EnsureSchema(ctx)
	}); err != nil {
		return err
	}

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}
	if err := connect(ctx, log, "Elasticsearch", func() error {
		if err := es.Ping(ctx); err != nil {
			return err
		}
		return es.EnsureAuditIndex(ctx, cfg.Database.Elasticsearch.Index)
	}); err != nil {
		return err
	}

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	defer redis.Close()
	if err := connect(ctx, log, "Redis", func() error { return redis.Ping(ctx) }); err != nil {
		return err
	}

	// --- External services ---
	var crm scl.CRM
	if cfg.Integrations.Zoho.AuthToken != "" {
		crm = zoho.NewCRMClient(cfg.Integrations.Zoho.BaseURL, cfg.Integrations.Zoho.AuthToken, 15*time.Second)
	} else {
		log.Warn("Zoho CRM token not configured, lead sync disabled", nil)
	}

	var email sar.EmailSender
	var alerts sar.AlertPublisher
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
		sdkCfg, err := awsclient.LoadConfig(ctx, awsCfg.Region)
		if err != nil {
			return err
		}
		if awsCfg.SES.Enabled {
			email = awsclient.NewSESClient(sdkCfg, awsCfg.SES.FromEmail)
		}
		if awsCfg.SNS.Enabled {
			alerts = awsclient.NewSNSClient(sdkCfg)
		}
	}

	var publisher events.Publisher = events.NewLoggingPublisher(log)
	if cfg.Integrations.Kafka.Enabled {
		kafka, err := events.NewKafkaPublisher(cfg.Integrations.Kafka.Brokers, cfg.Integrations.Kafka.Topics)
		if err != nil {
			return err
		}
		publisher = kafka
	}
	defer publisher.Close()

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("load activity registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("activity registry: %w", err)
	}
	var inputSchema map[string]interface{}
	if activity, ok := reg.Find(vai.TaskType); ok {
		inputSchema = activity.InputSchema
	}

	engine := audit.NewEngine(cfg.Audit.Defaults)
	calcs := calculators.NewRegistry()

	// --- Workers ---
	var cache gla.Cache
	if cfg.Audit.CacheEnabled {
		cache = redis
	}

	handlers := map[string]camunda.JobHandler{
		vai.TaskType: vai.NewHandler(&vai.Config{Timeout: workerTimeout(cfg, vai.TaskType)}, engine, inputSchema, log),
		gla.TaskType: gla.NewHandler(&gla.Config{
			Timeout:      workerTimeout(cfg, gla.TaskType),
			CacheEnabled: cfg.Audit.CacheEnabled,
			CacheTTL:     time.Duration(cfg.Database.Redis.CacheTTL) * time.Second,
		}, engine, cache, obs, log),
		car.TaskType: car.NewHandler(&car.Config{Timeout: workerTimeout(cfg, car.TaskType)}, pg.DB, log),
		iar.TaskType: iar.NewHandler(&iar.Config{
			Timeout:   workerTimeout(cfg, iar.TaskType),
			IndexName: cfg.Database.Elasticsearch.Index,
		}, es, log),
		scl.TaskType: scl.NewHandler(&scl.Config{
			Enabled:    crm != nil,
			Timeout:    workerTimeout(cfg, scl.TaskType),
			LeadSource: scl.DefaultConfig().LeadSource,
		}, crm, log),
		sar.TaskType: sar.NewHandler(&sar.Config{
			Timeout:             workerTimeout(cfg, sar.TaskType),
			EmailEnabled:        email != nil,
			SalesAlertEnabled:   alerts != nil && awsCfg.SNS.SalesTopicARN != "",
			SalesTopicARN:       awsCfg.SNS.SalesTopicARN,
			SalesAlertThreshold: cfg.Audit.SalesAlertThreshold,
		}, email, alerts, log),
		pae.TaskType: pae.NewHandler(&pae.Config{Timeout: workerTimeout(cfg, pae.TaskType)}, publisher, log),
		rc.TaskType:  rc.NewHandler(&rc.Config{Timeout: workerTimeout(cfg, rc.TaskType)}, calcs, log),
	}

	var workers []*camunda.Worker
	for _, activity := range reg.Activities {
		handler, ok := handlers[activity.TaskType]
		if !ok {
			log.Warn("No handler for registered task type", map[string]interface{}{"taskType": activity.TaskType})
			continue
		}
		wcfg := config.GetWorkerConfig(cfg, activity.TaskType)
		if !wcfg.Enabled {
			log.Info("Worker disabled", map[string]interface{}{"taskType": activity.TaskType})
			continue
		}
		workers = append(workers, camunda.NewWorker(zeebe.Zeebe(), activity.TaskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler, log))
	}
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	// --- HTTP API ---
	server := api.NewServer(cfg.HTTP, api.Dependencies{
		Engine:      engine,
		Calculators: calcs,
		AuditSchema: inputSchema,
		Checks: map[string]api.CheckFunc{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"elasticsearch": es.Ping,
			"redis":         redis.Ping,
		},
	}, log)

	serverErr := server.Run(ctx)

	log.Info("Shutting down, stopping workers", nil)
	for _, w := range workers {
		w.Stop()
	}
	log.Info("Worker manager stopped", nil)
	return serverErr
}

// connect retries fn with backoff while the dependency is still starting.
func connect(ctx context.Context, log logger.Logger, name string, fn func() error) error {
	err := camunda.Retry(ctx, dependencyRetry, func(attempt int) error {
		err := fn()
		if err != nil {
			log.Warn("Dependency not ready", map[string]interface{}{
				"dependency": name,
				"attempt":    attempt + 1,
				"error":      err.Error(),
			})
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s connection failed: %w", name, err)
	}
	log.Info("Dependency connected", map[string]interface{}{"dependency": name})
	return nil
}

// workerTimeout is the per-job context deadline, slightly below the Zeebe job
// timeout so a slow job fails before the broker hands it to another worker.
func workerTimeout(cfg *config.Config, taskType string) time.Duration {
	timeout := config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	if timeout > 2*time.Second {
		return timeout - time.Second
	}
	return timeout
}
