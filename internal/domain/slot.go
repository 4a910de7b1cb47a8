package domain

import (
	"time"

	"github.com/orkestre/agenda-service/pkg/types"
)

// AvailableSlot represents a start time open for booking on a given day
type AvailableSlot struct {
	StartTime types.TimeString // local wall-clock time of the establishment
	Start     time.Time        // the same instant in UTC
	End       time.Time
}

// Interval returns the half-open interval the slot would occupy
func (s AvailableSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
