package domain

import (
	"time"
	_ "time/tzdata"
)

// Establishment represents a tenant business (salon, clinic, pet shop)
type Establishment struct {
	ID       int64
	Name     string
	Timezone string // IANA name, e.g. "America/Sao_Paulo"

	// WorkingHours is nil until the establishment configures its schedule
	WorkingHours *WorkingHoursConfig

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the establishment timezone
func (e *Establishment) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// IsConfigured returns true if the establishment has a working-hours configuration
func (e *Establishment) IsConfigured() bool {
	return e.WorkingHours != nil
}

// Service represents a bookable service offered by an establishment
type Service struct {
	ID              int64
	EstablishmentID int64
	Name            string
	Price           float64
	DurationMinutes int
	IsActive        bool
}

// Duration returns the service length
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// IsBookableAt returns true if the service can be booked at the given establishment
func (s *Service) IsBookableAt(establishmentID int64) bool {
	return s.EstablishmentID == establishmentID && s.IsActive && s.DurationMinutes > 0
}

// MemberRole is the role a user holds in an establishment
type MemberRole string

const (
	RoleOwner        MemberRole = "owner"
	RoleCollaborator MemberRole = "collaborator"
)

// CanManageSchedule reports whether the role may change working hours
func (r MemberRole) CanManageSchedule() bool {
	return r == RoleOwner
}

// CanManageAppointments reports whether the role may view and update appointments
func (r MemberRole) CanManageAppointments() bool {
	return r == RoleOwner || r == RoleCollaborator
}
