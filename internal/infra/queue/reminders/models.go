package reminders

import "time"

// Job задача на доставку напоминания
type Job struct {
	ID            string    `json:"id"`
	AppointmentID int64     `json:"appointment_id"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}
