// cmd/onboarding-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"startup-onboarding/internal/api"
	"startup-onboarding/internal/common/auth"
	"startup-onboarding/internal/common/aws"
	"startup-onboarding/internal/common/config"
	"startup-onboarding/internal/common/database"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/common/observability"
	"startup-onboarding/internal/common/zoho"
	"startup-onboarding/internal/onboarding/crm"
	"startup-onboarding/internal/onboarding/directory"
	"startup-onboarding/internal/onboarding/draft"
	"startup-onboarding/internal/onboarding/notify"
	"startup-onboarding/internal/onboarding/profile"
	"startup-onboarding/internal/onboarding/wizard"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting onboarding server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("onboarding-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init External Service Clients ---
	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	indexer := directory.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log)

	hooks := []profile.AfterCreateHook{indexer}

	if cfg.Integrations.AWS.SES.Enabled || cfg.Integrations.AWS.SNS.Enabled {
		var sesSvc notify.SESService
		var snsSvc notify.SNSService
		topicARN := ""

		if cfg.Integrations.AWS.SES.Enabled {
			sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client failed", zap.Error(err))
			}
			sesSvc = sesClient
		}
		if cfg.Integrations.AWS.SNS.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client failed", zap.Error(err))
			}
			snsSvc = snsClient
			topicARN = cfg.Integrations.AWS.SNS.TopicARN
		}

		hooks = append(hooks, notify.NewNotifier(
			sesSvc, snsSvc, cfg.Integrations.AWS.SES.FromEmail, topicARN, log))
	}

	if cfg.Integrations.Zoho.AuthToken != "" {
		zohoClient := zoho.NewCRMClient(cfg.Integrations.Zoho.APIKey, cfg.Integrations.Zoho.AuthToken)
		hooks = append(hooks, crm.NewSyncer(zohoClient, log))
	}

	zapLog.Info("All external service clients initialized")

	// --- Wire the onboarding core ---
	profiles := profile.NewService(pg.DB, log, hooks...)

	draftStore := draft.NewRedisStore(
		redis.Client,
		cfg.Onboarding.DraftKeyPrefix,
		config.GetDuration(cfg.Onboarding.StoreTimeout),
		log,
	)

	sessions := wizard.NewManager(draftStore, profiles, log).WithRecorder(obs)

	server := api.NewServer(sessions, profiles, indexer, keycloak, nil, log)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address()))
		if err := server.Start(cfg.Server.Address()); err != nil {
			zapLog.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Onboarding server stopped gracefully")
}
