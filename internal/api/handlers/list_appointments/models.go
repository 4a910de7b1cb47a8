package list_appointments

import (
	"strconv"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
	"github.com/orkestre/agenda-service/internal/service/appointments/models"
)

// ToServiceRequest создает запрос сервиса из query параметров.
// Пустые параметры не фильтруют
func ToServiceRequest(establishmentID, userID int64, startDateStr, endDateStr, statusStr, limitStr, offsetStr string) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{
		UserID:          userID,
		EstablishmentID: establishmentID,
	}

	if startDateStr != "" {
		date, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
	}

	if endDateStr != "" {
		date, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &date
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Limit = limit
	}

	if offsetStr != "" {
		offset, err := strconv.ParseUint(offsetStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Offset = offset
	}

	return req, nil
}
