package domain

import (
	"time"

	"github.com/orkestre/agenda-service/pkg/types"
)

// DayWindow returns the local calendar day of date in loc as [midnight, next midnight).
// Only the year, month and day of date are used.
func DayWindow(date time.Time, loc *time.Location) Interval {
	y, m, d := date.Date()
	return Interval{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

// CandidateSlots generates the start instants of a day that fit the opening hours
// and do not touch the lunch break. Candidates step by the configured interval in
// absolute time, so a DST jump inside opening hours shifts the wall-clock labels
// instead of producing duplicated or missing instants.
func (c *WorkingHoursConfig) CandidateSlots(date time.Time, loc *time.Location, duration time.Duration) []AvailableSlot {
	slots := make([]AvailableSlot, 0)

	y, m, d := date.Date()
	localDate := time.Date(y, m, d, 0, 0, 0, 0, loc)
	day := c.Day(localDate.Weekday())

	open, ok := day.OpenInterval(localDate, loc)
	if !ok || duration <= 0 || c.AppointmentIntervalMinutes <= 0 {
		return slots
	}
	lunch, hasLunch := day.LunchInterval(localDate, loc)
	step := c.Interval()

	for start := open.Start; !start.Add(duration).After(open.End); start = start.Add(step) {
		candidate := NewInterval(start, duration)
		if hasLunch && candidate.Overlaps(lunch) {
			continue
		}
		slots = append(slots, AvailableSlot{
			StartTime: types.NewTimeString(start.In(loc)),
			Start:     start.UTC(),
			End:       candidate.End.UTC(),
		})
	}

	return slots
}

// Admits reports whether iv lies inside the opening hours of its local weekday
// and does not overlap that day's lunch break
func (c *WorkingHoursConfig) Admits(iv Interval, loc *time.Location) bool {
	localStart := iv.Start.In(loc)
	day := c.Day(localStart.Weekday())

	open, ok := day.OpenInterval(localStart, loc)
	if !ok || !open.Contains(iv) {
		return false
	}
	if lunch, hasLunch := day.LunchInterval(localStart, loc); hasLunch && iv.Overlaps(lunch) {
		return false
	}
	return true
}
