package domain

import "time"

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending                  AppointmentStatus = "pending"
	StatusConfirmed                AppointmentStatus = "confirmed"
	StatusInProgress               AppointmentStatus = "in_progress"
	StatusCompleted                AppointmentStatus = "completed"
	StatusCancelledByClient        AppointmentStatus = "cancelled_by_client"
	StatusCancelledByEstablishment AppointmentStatus = "cancelled_by_establishment"
	StatusNoShow                   AppointmentStatus = "no_show"
	StatusRescheduled              AppointmentStatus = "rescheduled"
)

// AllStatuses lists every known status in lifecycle order
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelledByClient,
	StatusCancelledByEstablishment,
	StatusNoShow,
	StatusRescheduled,
}

// IsValid reports whether s is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseAppointmentStatus converts a raw string into a known status
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(raw)
	if !s.IsValid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}

// Appointment represents a customer booking of a service at an establishment.
// StartTime and EndTime are absolute instants stored in UTC.
type Appointment struct {
	ID              int64
	EstablishmentID int64
	ServiceID       int64
	StartTime       time.Time
	EndTime         time.Time
	Status          AppointmentStatus

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	NotesByCustomer      *string
	NotesByEstablishment *string

	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open [StartTime, EndTime) interval of the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// BlocksSlot returns true if the appointment occupies its interval for new bookings
func (a *Appointment) BlocksSlot() bool {
	return a.Status.BlocksSlot()
}

// BlocksSlot returns true for statuses that reserve time on the establishment calendar
func (s AppointmentStatus) BlocksSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// HasPassed returns true if the appointment start is strictly before now
func (a *Appointment) HasPassed(now time.Time) bool {
	return now.After(a.StartTime)
}

// AppointmentsFilter фильтр для получения записей заведения
type AppointmentsFilter struct {
	EstablishmentID int64               // Обязательный параметр
	StartFrom       *time.Time          // start_time >= StartFrom (опционально)
	StartTo         *time.Time          // start_time < StartTo (опционально)
	Statuses        []AppointmentStatus // Фильтр по статусам (пустой - все)
	Limit           uint64              // 0 - без ограничения
	Offset          uint64
}
