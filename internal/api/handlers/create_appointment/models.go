package create_appointment

import (
	"time"

	appointmentModels "github.com/orkestre/agenda-service/internal/service/appointments/models"
	createAppointment "github.com/orkestre/agenda-service/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID       int64   `json:"serviceId"`
	StartTime       string  `json:"startTime"` // RFC 3339 со смещением, например "2026-01-05T10:00:00-03:00"
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail,omitempty"`
	NotesByCustomer *string `json:"notesByCustomer,omitempty"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	appointmentModels.AppointmentResponse
	ServiceName    string `json:"serviceName"`
	Timezone       string `json:"timezone"`
	LocalStartTime string `json:"localStartTime"` // время начала в часовом поясе заведения
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(establishmentID int64) (*createAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		EstablishmentID: establishmentID,
		ServiceID:       r.ServiceID,
		StartTime:       startTime,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		NotesByCustomer: r.NotesByCustomer,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	localStart := resp.Appointment.StartTime
	if loc, err := time.LoadLocation(resp.Timezone); err == nil {
		localStart = localStart.In(loc)
	}

	return &CreateAppointmentResponse{
		AppointmentResponse: *appointmentModels.FromDomainAppointment(resp.Appointment),
		ServiceName:         resp.ServiceName,
		Timezone:            resp.Timezone,
		LocalStartTime:      localStart.Format(time.RFC3339),
	}
}
