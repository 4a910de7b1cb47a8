package deliver_reminder

import (
	"context"

	"github.com/orkestre/agenda-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Establishment, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Sender отправляет текстовое сообщение в мессенджер
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
