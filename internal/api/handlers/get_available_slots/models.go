package get_available_slots

import (
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
	getAvailableSlots "github.com/orkestre/agenda-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	EstablishmentID int64    `json:"establishmentId"`
	ServiceID       int64    `json:"serviceId"`
	Timezone        string   `json:"timezone"`
	Slots           []string `json:"slots"` // "HH:MM" в часовом поясе заведения
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		EstablishmentID: resp.EstablishmentID,
		ServiceID:       resp.ServiceID,
		Timezone:        resp.Timezone,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(establishmentID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		EstablishmentID: establishmentID,
		ServiceID:       serviceID,
		Date:            date,
	}, nil
}
