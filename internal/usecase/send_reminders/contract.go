package send_reminders

import (
	"context"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetDueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) error
}

// Notifier доставляет напоминание по записи (очередь или прямая отправка)
type Notifier interface {
	Notify(ctx context.Context, appointmentID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик напоминаний по результату
type Metrics interface {
	IncReminder(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
