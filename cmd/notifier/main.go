package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/orkestre/agenda-service/internal/config"
	reminderQueue "github.com/orkestre/agenda-service/internal/infra/queue/reminders"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	serviceRepo "github.com/orkestre/agenda-service/internal/infra/storage/service"
	"github.com/orkestre/agenda-service/internal/integrations/whatsapp"
	deliverReminderUC "github.com/orkestre/agenda-service/internal/usecase/deliver_reminder"
	reminderWorker "github.com/orkestre/agenda-service/internal/worker/reminders"
	"github.com/orkestre/agenda-service/pkg/dbmetrics"
	"github.com/orkestre/agenda-service/pkg/logger"
	"github.com/orkestre/agenda-service/pkg/metrics"
)

// Воркер доставки напоминаний: читает задачи из очереди Redis и отправляет сообщения WhatsApp
func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfg.Reminders.Mode != config.ReminderModeQueue {
		log.Warn("Reminders mode is %q, the notifier has nothing to consume", cfg.Reminders.Mode)
	}

	log.Info("Starting reminder notifier (queue=%s, rate=%.2f/s)...", cfg.Redis.QueueKey, cfg.Reminders.SendRatePerSecond)

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName + "-notifier")
		go serveMetrics(cfg, log)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}

	sender := whatsapp.NewClient(
		cfg.WhatsApp.BaseURL,
		cfg.WhatsApp.APIVersion,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.Timeout(),
		log,
	)

	deliverer := deliverReminderUC.NewUseCase(
		appointmentRepository,
		establishmentRepo.NewRepository(wrappedDB),
		serviceRepo.NewRepository(wrappedDB),
		sender,
		cfg.WhatsApp.CountryCode,
		log,
	)

	worker := reminderWorker.NewWorker(
		reminderQueue.NewQueue(redisClient, cfg.Redis.QueueKey),
		deliverer,
		appointmentRepository,
		metricsCollector,
		log,
		reminderWorker.Config{
			RatePerSecond:  cfg.Reminders.SendRatePerSecond,
			DequeueTimeout: cfg.Reminders.DequeueTimeoutDuration(),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.Run(ctx)
	log.Info("Reminder notifier stopped")
}

// serveMetrics отдает метрики воркера на порту API + 2
func serveMetrics(cfg *config.Config, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort+2)
	log.Info("Notifier metrics exposed at %s%s", addr, cfg.Metrics.Path)

	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Error("Metrics server failed: %v", err)
	}
}
