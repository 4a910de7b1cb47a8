package update_appointment_status

import (
	appointmentModels "github.com/orkestre/agenda-service/internal/service/appointments/models"
	updateStatus "github.com/orkestre/agenda-service/internal/usecase/update_appointment_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // например "confirmed", "cancelled_by_client"
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	appointmentModels.AppointmentResponse
	PreviousStatus string `json:"previousStatus"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		AppointmentResponse: *appointmentModels.FromDomainAppointment(resp.Appointment),
		PreviousStatus:      string(resp.PreviousStatus),
	}
}
