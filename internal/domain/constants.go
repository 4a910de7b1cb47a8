package domain

import "time"

// Business validation constants
const (
	MaxCustomerNameLength  = 255
	MaxCustomerPhoneLength = 32
	MaxNotesLength         = 1000
	MaxListLimit           = 200
	DefaultListLimit       = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Reminder constants
const (
	ReminderLookahead = 24 * time.Hour
)

// SlotBlockingStatuses статусы записей, которые занимают время в календаре заведения
// Используется при расчёте свободных слотов и проверке пересечений
var SlotBlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
