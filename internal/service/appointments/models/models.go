package models

import (
	"errors"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
)

var (
	// ErrInvalidDateRange возвращается, когда конец периода раньше начала
	ErrInvalidDateRange = errors.New("end date is before start date")

	// ErrInvalidLimit возвращается при превышении максимального размера страницы
	ErrInvalidLimit = errors.New("limit exceeds maximum page size")
)

// Request модели

// ListAppointmentsRequest запрос на получение записей заведения
// Даты интерпретируются в часовом поясе заведения, оба конца включительно
type ListAppointmentsRequest struct {
	UserID          int64
	EstablishmentID int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	Limit           uint64
	Offset          uint64
}

// ToDomainFilter конвертирует request в domain фильтр для часового пояса loc
func (r *ListAppointmentsRequest) ToDomainFilter(loc *time.Location) (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		EstablishmentID: r.EstablishmentID,
		Limit:           r.Limit,
		Offset:          r.Offset,
	}

	if filter.Limit == 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		return filter, ErrInvalidLimit
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, ErrInvalidDateRange
	}

	if r.StartDate != nil {
		from := domain.DayWindow(*r.StartDate, loc).Start
		filter.StartFrom = &from
	}
	if r.EndDate != nil {
		to := domain.DayWindow(*r.EndDate, loc).End
		filter.StartTo = &to
	}

	if r.Status != nil {
		status, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	EstablishmentID int64  `json:"establishmentId"`
	ServiceID       int64  `json:"serviceId"`
	Status          string `json:"status"`

	StartTime time.Time `json:"startTime"` // UTC, RFC 3339
	EndTime   time.Time `json:"endTime"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	NotesByCustomer      *string `json:"notesByCustomer,omitempty"`
	NotesByEstablishment *string `json:"notesByEstablishment,omitempty"`

	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Limit        uint64                `json:"limit"`
	Offset       uint64                `json:"offset"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                   a.ID,
		EstablishmentID:      a.EstablishmentID,
		ServiceID:            a.ServiceID,
		Status:               string(a.Status),
		StartTime:            a.StartTime.UTC(),
		EndTime:              a.EndTime.UTC(),
		CustomerName:         a.CustomerName,
		CustomerPhone:        a.CustomerPhone,
		CustomerEmail:        a.CustomerEmail,
		NotesByCustomer:      a.NotesByCustomer,
		NotesByEstablishment: a.NotesByEstablishment,
		ReminderSentAt:       a.ReminderSentAt,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, filter domain.AppointmentsFilter) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}

	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}

	return resp
}
