package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/config"
	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/infra/database"
	"github.com/pipeline-crm/leadboard/internal/infra/http/handlers"
	"github.com/pipeline-crm/leadboard/internal/infra/http/middleware"
	"github.com/pipeline-crm/leadboard/internal/infra/integration/apper"
	"github.com/pipeline-crm/leadboard/internal/infra/lock"
	"github.com/pipeline-crm/leadboard/internal/infra/mail"
	"github.com/pipeline-crm/leadboard/internal/infra/queue"
	"github.com/pipeline-crm/leadboard/internal/infra/worker"
	"github.com/pipeline-crm/leadboard/internal/logger"
	"github.com/pipeline-crm/leadboard/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New("local").Fatal("invalid configuration", zap.Error(err))
	}
	log := logger.New(cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Record API
	client := apper.NewClient(cfg.ApperURL, cfg.ApperProjectID, cfg.ApperPublicKey).
		WithObserver(middleware.RecordRemoteCall)
	leadStore := apper.NewLeadStore(client)
	dealStore := apper.NewDealStore(client)
	repStore := apper.NewSalesRepStore(client)

	sinks := usecase.Notifiers{usecase.LogNotifier{Log: log}}
	deps := map[string]handlers.Pinger{
		"database": nil,
		"rabbitmq": nil,
		"redis":    nil,
	}

	// 2. Optional infrastructure
	var notifications *database.NotificationRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("database unavailable", zap.Error(err))
		}
		defer db.Close()
		notifications = database.NewNotificationRepository(db)
		if err := notifications.Migrate(ctx); err != nil {
			log.Fatal("database migration failed", zap.Error(err))
		}
		deps["database"] = db
	}

	if cfg.RabbitMQURL != "" {
		mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal("rabbitmq unavailable", zap.Error(err))
		}
		defer mq.Close()
		sinks = append(sinks, queue.NewProducer(mq.Ch, log))
		deps["rabbitmq"] = handlers.PingFunc(func(context.Context) error {
			if mq.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		})

		if notifications != nil {
			consumeCh, err := mq.Conn.Channel()
			if err != nil {
				log.Fatal("rabbitmq consumer channel", zap.Error(err))
			}
			consumer := queue.NewConsumer(consumeCh, notifications, log)
			go func() {
				if err := consumer.Start(ctx); err != nil {
					log.Error("notification consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	var guard usecase.SyncGuard
	if cfg.RedisAddr != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, deal sync runs unguarded", zap.Error(err))
		} else {
			defer rdb.Close()
			guard = lock.NewRedisGuard(rdb, cfg.DealSyncGuardTTL, log)
			deps["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		}
	}

	// 3. Use cases
	pipeline := usecase.NewPipelineSync(dealStore, guard, log)
	leadsUC := usecase.NewLeadUseCase(leadStore, pipeline, sinks, log)
	ingestUC := usecase.NewIngestUseCase(leadStore, sinks, log)
	dealsUC := usecase.NewDealUseCase(dealStore, sinks, log)
	analyticsUC := usecase.NewAnalyticsUseCase(leadStore, dealStore, repStore, log)
	reportsUC := usecase.NewReportUseCase(leadStore, log)
	repsUC := usecase.NewDirectoryUseCase[entity.SalesRep](repStore, usecase.SalesRepWording, sinks, log)
	teamUC := usecase.NewDirectoryUseCase[entity.TeamMember](apper.NewTeamStore(client), usecase.TeamWording, sinks, log)
	contactsUC := usecase.NewDirectoryUseCase[entity.Contact](apper.NewContactStore(client), usecase.ContactWording, sinks, log)
	sessions := usecase.NewSessionManager(leadStore, pipeline, sinks, log,
		usecase.WithDebounce(cfg.AutosaveDebounce),
		usecase.WithObserver(middleware.AutosaveMetrics{}),
	)

	// 4. Workers
	go worker.NewSessionReaperWorker(sessions, cfg.SessionIdleTTL, log).Start(ctx)
	if cfg.Mail.Enabled() {
		sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From, cfg.Mail.To)
		go worker.NewDigestWorker(reportsUC, sender, cfg.DigestInterval, log).Start(ctx)
	} else {
		log.Info("smtp not configured, follow-up digest disabled")
	}

	// 5. Handlers
	a := &api{
		health:     handlers.NewHealthHandler(version, deps),
		leads:      handlers.NewLeadHandler(leadsUC, ingestUC),
		deals:      handlers.NewDealHandler(dealsUC),
		categories: handlers.NewCategoryHandler(usecase.NewCategoryRegistry(sinks)),
		sessions:   handlers.NewSessionHandler(sessions),
		analytics:  handlers.NewAnalyticsHandler(analyticsUC),
		reports:    handlers.NewReportHandler(reportsUC),
		salesReps:  handlers.NewDirectoryHandler(repsUC),
		team:       handlers.NewDirectoryHandler(teamUC),
		contacts:   handlers.NewDirectoryHandler(contactsUC),
	}
	if notifications != nil {
		a.notifications = handlers.NewNotificationHandler(notifications)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.routes(cfg.CORSOrigins, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("leadboard api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	sessions.CloseAll()
}
