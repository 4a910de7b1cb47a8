package list_appointments

import (
	"context"

	"github.com/orkestre/agenda-service/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByEstablishment(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
