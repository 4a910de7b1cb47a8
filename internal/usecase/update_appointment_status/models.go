package update_appointment_status

import "github.com/orkestre/agenda-service/internal/domain"

// Request модель запроса на смену статуса
type Request struct {
	UserID          int64
	EstablishmentID int64
	AppointmentID   int64
	Status          string
}

// Response модель ответа
type Response struct {
	Appointment    *domain.Appointment
	PreviousStatus domain.AppointmentStatus
}
