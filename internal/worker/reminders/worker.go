package reminders

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	queue "github.com/orkestre/agenda-service/internal/infra/queue/reminders"
	"github.com/orkestre/agenda-service/internal/usecase/deliver_reminder"
	"github.com/orkestre/agenda-service/pkg/metrics"
)

const (
	defaultDequeueTimeout = 5 * time.Second
	defaultRatePerSecond  = 5
	errorBackoff          = time.Second
)

// Config параметры обработчика очереди
type Config struct {
	RatePerSecond  float64
	DequeueTimeout time.Duration
}

// Worker забирает задачи из очереди и доставляет напоминания с ограничением скорости
type Worker struct {
	source          JobSource
	deliverer       Deliverer
	appointmentRepo AppointmentRepository
	limiter         *rate.Limiter
	metrics         Metrics
	logger          Logger
	dequeueTimeout  time.Duration
}

// NewWorker создает обработчик очереди напоминаний
func NewWorker(
	source JobSource,
	deliverer Deliverer,
	appointmentRepo AppointmentRepository,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *Worker {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRatePerSecond
	}
	if cfg.DequeueTimeout <= 0 {
		cfg.DequeueTimeout = defaultDequeueTimeout
	}
	return &Worker{
		source:          source,
		deliverer:       deliverer,
		appointmentRepo: appointmentRepo,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		metrics:         metrics,
		logger:          logger,
		dequeueTimeout:  cfg.DequeueTimeout,
	}
}

// Run обрабатывает задачи до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("ReminderWorker: started, rate=%.2f/s", float64(w.limiter.Limit()))

	for {
		if ctx.Err() != nil {
			w.logger.Info("ReminderWorker: stopped")
			return
		}

		if _, err := w.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("ReminderWorker: %v", err)
			sleep(ctx, errorBackoff)
		}
	}
}

// ProcessNext обрабатывает одну задачу; false означает, что очередь была пуста
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.source.Dequeue(ctx, w.dequeueTimeout)
	if err != nil {
		if errors.Is(err, queue.ErrMalformedJob) {
			w.logger.Error("ReminderWorker: dropping malformed job: %v", err)
			return true, nil
		}
		return false, err
	}
	if job == nil {
		return false, nil
	}

	if err := w.limiter.Wait(ctx); err != nil {
		// Задача уже снята с очереди: отметку нужно снять, иначе напоминание потеряется
		w.reset(context.WithoutCancel(ctx), job)
		return true, err
	}

	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *queue.Job) {
	err := w.deliverer.Execute(ctx, job.AppointmentID)

	switch {
	case err == nil:
		w.metrics.IncReminder(metrics.ReminderResultDelivered)
		w.logger.Info("ReminderWorker: job %s delivered for appointment id=%d", job.ID, job.AppointmentID)
	case errors.Is(err, deliver_reminder.ErrNotConfirmed), errors.Is(err, deliver_reminder.ErrAppointmentNotFound):
		w.metrics.IncReminder(metrics.ReminderResultSkipped)
		w.logger.Info("ReminderWorker: job %s skipped: %v", job.ID, err)
	default:
		w.metrics.IncReminder(metrics.ReminderResultUndelivered)
		w.logger.Warn("ReminderWorker: job %s for appointment id=%d failed: %v", job.ID, job.AppointmentID, err)
		w.reset(ctx, job)
	}
}

func (w *Worker) reset(ctx context.Context, job *queue.Job) {
	if err := w.appointmentRepo.ResetReminderSent(ctx, job.AppointmentID); err != nil {
		w.logger.Error("ReminderWorker: failed to reset reminder for appointment id=%d: %v", job.AppointmentID, err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
