package update_appointment_status

import (
	"fmt"

	"github.com/orkestre/agenda-service/internal/domain"
)

// validateRequest валидирует входные данные и разбирает целевой статус
func validateRequest(req *Request) (domain.AppointmentStatus, error) {
	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.EstablishmentID <= 0 {
		return "", fmt.Errorf("%w: establishmentID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return "", fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	status, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return status, nil
}
