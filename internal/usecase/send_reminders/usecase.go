package send_reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	"github.com/orkestre/agenda-service/pkg/metrics"
)

// UseCase use case для периодической рассылки напоминаний
type UseCase struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
	lookahead       time.Duration
}

// NewUseCase создает новый экземпляр use case
// lookahead <= 0 заменяется на domain.ReminderLookahead
func NewUseCase(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	lookahead time.Duration,
) *UseCase {
	if lookahead <= 0 {
		lookahead = domain.ReminderLookahead
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
		lookahead:       lookahead,
	}
}

// Execute выполняет один цикл рассылки и возвращает количество отправленных напоминаний
// Ошибка доставки по одной записи не прерывает цикл: запись остается без отметки и попадет в следующий цикл.
// Ошибка хранилища прерывает цикл целиком, все отметки откатываются.
func (uc *UseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	to := now.Add(uc.lookahead)

	uc.logger.Info("SendReminders: sweep window (%s, %s]", now.Format(time.RFC3339), to.Format(time.RFC3339))

	var sent, failed int

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		sent, failed = 0, 0

		// 1. Подтвержденные записи без напоминания в окне (now, now+lookahead]
		due, err := uc.appointmentRepo.GetDueForReminder(txCtx, now, to)
		if err != nil {
			uc.logger.Error("SendReminders: failed to get due appointments: %v", err)
			return fmt.Errorf("%w: failed to get due appointments: %w", ErrSweepFailed, err)
		}

		for _, appt := range due {
			// 2. Доставка; ошибка по одной записи только логируется
			if err := uc.notifier.Notify(txCtx, appt.ID); err != nil {
				failed++
				uc.logger.Warn("SendReminders: failed to notify appointment id=%d: %v", appt.ID, err)
				continue
			}

			// 3. Отметка об отправке
			if err := uc.appointmentRepo.MarkReminderSent(txCtx, appt.ID, now); err != nil {
				if errors.Is(err, appointmentRepo.ErrReminderAlreadySent) {
					uc.logger.Warn("SendReminders: reminder for appointment id=%d already stamped", appt.ID)
					continue
				}
				uc.logger.Error("SendReminders: failed to stamp appointment id=%d: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to stamp appointment %d: %w", ErrSweepFailed, appt.ID, err)
			}
			sent++
		}

		return nil
	})

	if err != nil {
		uc.logger.Error("SendReminders: sweep aborted: %v", err)
		if !errors.Is(err, ErrSweepFailed) {
			err = fmt.Errorf("%w: %w", ErrSweepFailed, err)
		}
		return 0, err
	}

	for i := 0; i < sent; i++ {
		uc.metrics.IncReminder(metrics.ReminderResultSent)
	}
	for i := 0; i < failed; i++ {
		uc.metrics.IncReminder(metrics.ReminderResultFailed)
	}

	uc.logger.Info("SendReminders: %d reminders dispatched, %d failed", sent, failed)

	return sent, nil
}
