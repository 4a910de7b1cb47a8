package establishments

import (
	"context"

	"github.com/orkestre/agenda-service/internal/domain"
)

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Establishment, error)
	UpdateWorkingHours(ctx context.Context, id int64, cfg *domain.WorkingHoursConfig) error
	GetMemberRole(ctx context.Context, establishmentID, userID int64) (domain.MemberRole, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
