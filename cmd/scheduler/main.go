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
	sendRemindersUC "github.com/orkestre/agenda-service/internal/usecase/send_reminders"
	"github.com/orkestre/agenda-service/pkg/dbmetrics"
	"github.com/orkestre/agenda-service/pkg/logger"
	"github.com/orkestre/agenda-service/pkg/metrics"
	"github.com/orkestre/agenda-service/pkg/txmanager"
)

// Планировщик напоминаний: периодически выбирает записи, начинающиеся в ближайшее окно,
// и передает их на доставку (в очередь Redis или сразу в WhatsApp)
func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	once := flag.Bool("once", false, "run a single sweep and exit")
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

	log.Info("Starting reminder scheduler (mode=%s, interval=%s, lookahead=%s)...",
		cfg.Reminders.Mode, cfg.Reminders.SweepInterval(), cfg.Reminders.Lookahead())

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName + "-scheduler")
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
	txMgr := txmanager.New(wrappedDB, log)

	// Выбираем способ доставки
	var notifier sendRemindersUC.Notifier

	switch cfg.Reminders.Mode {
	case config.ReminderModeQueue:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		notifier = reminderQueue.NewQueue(redisClient, cfg.Redis.QueueKey)
		log.Info("Reminders are queued to redis %s, key=%s", cfg.Redis.Addr, cfg.Redis.QueueKey)

	case config.ReminderModeDirect:
		sender := whatsapp.NewClient(
			cfg.WhatsApp.BaseURL,
			cfg.WhatsApp.APIVersion,
			cfg.WhatsApp.PhoneNumberID,
			cfg.WhatsApp.AccessToken,
			cfg.WhatsApp.Timeout(),
			log,
		)
		notifier = deliverReminderUC.NewUseCase(
			appointmentRepository,
			establishmentRepo.NewRepository(wrappedDB),
			serviceRepo.NewRepository(wrappedDB),
			sender,
			cfg.WhatsApp.CountryCode,
			log,
		)
		log.Info("Reminders are delivered directly via WhatsApp")
	}

	sweep := sendRemindersUC.NewUseCase(
		appointmentRepository,
		notifier,
		txMgr,
		metricsCollector,
		log,
		cfg.Reminders.Lookahead(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runSweep := func() {
		sent, err := sweep.Execute(ctx, time.Now())
		if err != nil {
			log.Error("Reminder sweep failed: %v", err)
			return
		}
		log.Info("Reminder sweep finished: %d reminders dispatched", sent)
	}

	runSweep()
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.Reminders.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			runSweep()
		}
	}
}

// serveMetrics отдает метрики планировщика на порту API + 1
func serveMetrics(cfg *config.Config, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort+1)
	log.Info("Scheduler metrics exposed at %s%s", addr, cfg.Metrics.Path)

	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Error("Metrics server failed: %v", err)
	}
}
