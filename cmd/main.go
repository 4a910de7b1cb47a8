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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createAppointmentHandler "github.com/orkestre/agenda-service/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/orkestre/agenda-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/orkestre/agenda-service/internal/api/handlers/get_available_slots"
	getWorkingHoursHandler "github.com/orkestre/agenda-service/internal/api/handlers/get_working_hours"
	listAppointmentsHandler "github.com/orkestre/agenda-service/internal/api/handlers/list_appointments"
	updateAppointmentStatusHandler "github.com/orkestre/agenda-service/internal/api/handlers/update_appointment_status"
	updateWorkingHoursHandler "github.com/orkestre/agenda-service/internal/api/handlers/update_working_hours"
	"github.com/orkestre/agenda-service/internal/api/middleware"
	"github.com/orkestre/agenda-service/internal/config"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	serviceRepo "github.com/orkestre/agenda-service/internal/infra/storage/service"
	appointmentsService "github.com/orkestre/agenda-service/internal/service/appointments"
	establishmentsService "github.com/orkestre/agenda-service/internal/service/establishments"
	createAppointmentUC "github.com/orkestre/agenda-service/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/orkestre/agenda-service/internal/usecase/get_available_slots"
	updateAppointmentStatusUC "github.com/orkestre/agenda-service/internal/usecase/update_appointment_status"
	"github.com/orkestre/agenda-service/pkg/dbmetrics"
	"github.com/orkestre/agenda-service/pkg/logger"
	"github.com/orkestre/agenda-service/pkg/metrics"
	"github.com/orkestre/agenda-service/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting agenda-service API...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены). nil коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	establishmentRepository := establishmentRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	txMgr := txmanager.New(wrappedDB, log)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, establishmentRepository, log)
	establishmentSvc := establishmentsService.NewService(establishmentRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		establishmentRepository,
		serviceRepository,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		establishmentRepository,
		serviceRepository,
		txMgr,
		metricsCollector,
		log,
	)
	updateAppointmentStatusUseCase := updateAppointmentStatusUC.NewUseCase(
		appointmentRepository,
		establishmentRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(updateAppointmentStatusUseCase, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(establishmentSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(establishmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиенты заведения, без аутентификации)
	// ============================================================

	api.HandleFunc("/establishments/{establishmentId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	api.HandleFunc("/establishments/{establishmentId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	api.HandleFunc("/establishments/{establishmentId}/working-hours",
		getWorkingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (сотрудники заведения, требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/establishments/{establishmentId}/appointments",
		listAppointments.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/establishments/{establishmentId}/appointments/{appointmentId}",
		getAppointment.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/establishments/{establishmentId}/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Расписание (только владелец) ---
	protected.HandleFunc("/establishments/{establishmentId}/working-hours",
		updateWorkingHours.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
