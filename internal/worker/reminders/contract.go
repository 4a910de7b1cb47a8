package reminders

import (
	"context"
	"time"

	queue "github.com/orkestre/agenda-service/internal/infra/queue/reminders"
)

// JobSource источник задач на доставку
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
}

// Deliverer отправляет напоминание по записи
type Deliverer interface {
	Execute(ctx context.Context, appointmentID int64) error
}

// AppointmentRepository снимает отметку об отправке, чтобы следующий цикл повторил попытку
type AppointmentRepository interface {
	ResetReminderSent(ctx context.Context, id int64) error
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
