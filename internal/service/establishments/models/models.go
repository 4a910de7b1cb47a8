package models

import (
	"github.com/orkestre/agenda-service/internal/domain"
)

// UpdateWorkingHoursRequest запрос на замену расписания работы
// Расписание заменяется целиком
type UpdateWorkingHoursRequest struct {
	UserID          int64                      `json:"-"`
	EstablishmentID int64                      `json:"-"`
	WorkingHours    *domain.WorkingHoursConfig `json:"workingHours"`
}

// WorkingHoursResponse расписание работы заведения
type WorkingHoursResponse struct {
	EstablishmentID int64                      `json:"establishmentId"`
	Timezone        string                     `json:"timezone"`
	Configured      bool                       `json:"configured"` // false - расписание еще не задано, отдается конфигурация по умолчанию
	WorkingHours    *domain.WorkingHoursConfig `json:"workingHours"`
}

// FromDomainEstablishment конвертирует заведение в ответ с расписанием
func FromDomainEstablishment(est *domain.Establishment) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		EstablishmentID: est.ID,
		Timezone:        est.Timezone,
		Configured:      est.WorkingHours != nil,
		WorkingHours:    est.WorkingHours,
	}
	if resp.WorkingHours == nil {
		resp.WorkingHours = domain.NewWorkingHoursConfig()
	}
	return resp
}
