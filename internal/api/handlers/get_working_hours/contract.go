package get_working_hours

import (
	"context"

	"github.com/orkestre/agenda-service/internal/service/establishments/models"
)

type EstablishmentService interface {
	GetWorkingHours(ctx context.Context, establishmentID int64) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
