package update_working_hours

import (
	"context"

	"github.com/orkestre/agenda-service/internal/service/establishments/models"
)

type EstablishmentService interface {
	UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
