package create_appointment

import (
	"fmt"
	"strings"

	"github.com/orkestre/agenda-service/internal/domain"
	"github.com/orkestre/agenda-service/pkg/ptr"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EstablishmentID <= 0 {
		return fmt.Errorf("%w: establishmentID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name is too long", ErrInvalidInput)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	if len(phone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customer phone is too long", ErrInvalidInput)
	}

	if req.CustomerEmail != nil && !strings.Contains(*req.CustomerEmail, "@") {
		return fmt.Errorf("%w: customer email is malformed", ErrInvalidInput)
	}

	if len(ptr.Value(req.NotesByCustomer)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
