package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/orkestre/agenda-service/pkg/types"
)

// DefaultAppointmentIntervalMinutes slot granularity used when none is configured
const DefaultAppointmentIntervalMinutes = 30

// DayWorkingHours is the schedule of a single weekday.
// Build it with NewDayWorkingHours; a value assigned field by field is unchecked until Validate.
type DayWorkingHours struct {
	IsActive            bool
	StartTime           *types.TimeString
	EndTime             *types.TimeString
	LunchBreakStartTime *types.TimeString
	LunchBreakEndTime   *types.TimeString
}

// NewDayWorkingHours builds a validated day schedule from raw "HH:MM" strings.
// Empty strings are treated as unset.
func NewDayWorkingHours(isActive bool, start, end, lunchStart, lunchEnd string) (DayWorkingHours, error) {
	day := DayWorkingHours{IsActive: isActive}

	fields := []struct {
		name string
		raw  string
		dst  **types.TimeString
	}{
		{"start_time", start, &day.StartTime},
		{"end_time", end, &day.EndTime},
		{"lunch_break_start_time", lunchStart, &day.LunchBreakStartTime},
		{"lunch_break_end_time", lunchEnd, &day.LunchBreakEndTime},
	}
	for _, f := range fields {
		ts, err := parseOptionalTime(f.raw)
		if err != nil {
			return DayWorkingHours{}, newValidationError(f.name, "must be HH:MM (24h)")
		}
		*f.dst = ts
	}

	if err := day.Validate(); err != nil {
		return DayWorkingHours{}, err
	}
	return day, nil
}

// Validate checks the day invariants. The returned error is a *ValidationError.
func (d DayWorkingHours) Validate() error {
	start, end := d.StartTime, d.EndTime

	for _, f := range []struct {
		name string
		ts   *types.TimeString
	}{
		{"start_time", start},
		{"end_time", end},
		{"lunch_break_start_time", d.LunchBreakStartTime},
		{"lunch_break_end_time", d.LunchBreakEndTime},
	} {
		if f.ts != nil && f.ts.Validate() != nil {
			return newValidationError(f.name, "must be HH:MM (24h)")
		}
	}

	if start != nil && end != nil {
		if !end.IsAfter(*start) {
			return newValidationError("end_time", "must be after start_time")
		}
	} else if d.IsActive && (start != nil || end != nil) {
		return newValidationError("start_time", "an active day needs both start_time and end_time")
	}

	lunchStart, lunchEnd := d.LunchBreakStartTime, d.LunchBreakEndTime
	switch {
	case lunchStart != nil && lunchEnd != nil:
		if !lunchEnd.IsAfter(*lunchStart) {
			return newValidationError("lunch_break_end_time", "must be after lunch_break_start_time")
		}
		if start == nil || end == nil {
			return newValidationError("lunch_break_start_time", "lunch break requires start_time and end_time")
		}
		if lunchStart.IsBefore(*start) || lunchEnd.IsAfter(*end) {
			return newValidationError("lunch_break_start_time", "lunch break must lie within working hours")
		}
	case lunchStart != nil || lunchEnd != nil:
		return newValidationError("lunch_break_start_time", "both lunch break times must be given")
	}

	return nil
}

// IsOpen returns true if the day is active and has both opening and closing times
func (d DayWorkingHours) IsOpen() bool {
	return d.IsActive && d.StartTime != nil && d.EndTime != nil
}

// HasLunchBreak returns true if both lunch break bounds are set
func (d DayWorkingHours) HasLunchBreak() bool {
	return d.LunchBreakStartTime != nil && d.LunchBreakEndTime != nil
}

// OpenInterval returns the opening hours of the day on date in loc.
// ok is false when the day is closed.
func (d DayWorkingHours) OpenInterval(date time.Time, loc *time.Location) (Interval, bool) {
	if !d.IsOpen() {
		return Interval{}, false
	}
	return Interval{Start: d.StartTime.On(date, loc), End: d.EndTime.On(date, loc)}, true
}

// LunchInterval returns the lunch break of the day on date in loc
func (d DayWorkingHours) LunchInterval(date time.Time, loc *time.Location) (Interval, bool) {
	if !d.HasLunchBreak() {
		return Interval{}, false
	}
	return Interval{Start: d.LunchBreakStartTime.On(date, loc), End: d.LunchBreakEndTime.On(date, loc)}, true
}

type dayWorkingHoursJSON struct {
	IsActive            bool    `json:"is_active"`
	StartTime           *string `json:"start_time"`
	EndTime             *string `json:"end_time"`
	LunchBreakStartTime *string `json:"lunch_break_start_time"`
	LunchBreakEndTime   *string `json:"lunch_break_end_time"`
}

func (d DayWorkingHours) MarshalJSON() ([]byte, error) {
	return json.Marshal(dayWorkingHoursJSON{
		IsActive:            d.IsActive,
		StartTime:           timeToString(d.StartTime),
		EndTime:             timeToString(d.EndTime),
		LunchBreakStartTime: timeToString(d.LunchBreakStartTime),
		LunchBreakEndTime:   timeToString(d.LunchBreakEndTime),
	})
}

func (d *DayWorkingHours) UnmarshalJSON(data []byte) error {
	var raw dayWorkingHoursJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	day, err := NewDayWorkingHours(raw.IsActive,
		derefString(raw.StartTime),
		derefString(raw.EndTime),
		derefString(raw.LunchBreakStartTime),
		derefString(raw.LunchBreakEndTime),
	)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// WorkingHoursConfig is the weekly schedule of an establishment.
// Fields are exported for encoding only. Change it through SetDay and SetAppointmentInterval,
// which re-validate; storage and the establishments service call Validate again before every write.
type WorkingHoursConfig struct {
	Monday    DayWorkingHours `json:"monday"`
	Tuesday   DayWorkingHours `json:"tuesday"`
	Wednesday DayWorkingHours `json:"wednesday"`
	Thursday  DayWorkingHours `json:"thursday"`
	Friday    DayWorkingHours `json:"friday"`
	Saturday  DayWorkingHours `json:"saturday"`
	Sunday    DayWorkingHours `json:"sunday"`

	AppointmentIntervalMinutes int `json:"appointment_interval_minutes"`
}

// NewWorkingHoursConfig returns a config with every day inactive and the default interval
func NewWorkingHoursConfig() *WorkingHoursConfig {
	return &WorkingHoursConfig{AppointmentIntervalMinutes: DefaultAppointmentIntervalMinutes}
}

// Day returns the schedule for a weekday
func (c *WorkingHoursConfig) Day(weekday time.Weekday) DayWorkingHours {
	return *c.dayPtr(weekday)
}

// SetDay validates and replaces the schedule of a weekday
func (c *WorkingHoursConfig) SetDay(weekday time.Weekday, day DayWorkingHours) error {
	if err := day.Validate(); err != nil {
		return dayError(weekday, err)
	}
	*c.dayPtr(weekday) = day
	return nil
}

// SetAppointmentInterval validates and replaces the slot granularity
func (c *WorkingHoursConfig) SetAppointmentInterval(minutes int) error {
	if minutes <= 0 {
		return newValidationError("appointment_interval_minutes", "must be greater than zero")
	}
	c.AppointmentIntervalMinutes = minutes
	return nil
}

// Interval returns the slot granularity as a duration
func (c *WorkingHoursConfig) Interval() time.Duration {
	return time.Duration(c.AppointmentIntervalMinutes) * time.Minute
}

// Validate checks every day and the interval
func (c *WorkingHoursConfig) Validate() error {
	if c.AppointmentIntervalMinutes <= 0 {
		return newValidationError("appointment_interval_minutes", "must be greater than zero")
	}
	for _, wd := range weekdays {
		if err := c.dayPtr(wd).Validate(); err != nil {
			return dayError(wd, err)
		}
	}
	return nil
}

// UnmarshalJSON decodes the storage document. Missing days are inactive,
// a missing interval falls back to the default. Day errors carry the weekday in Field.
func (c *WorkingHoursConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cfg := NewWorkingHoursConfig()
	for _, wd := range weekdays {
		dayRaw, ok := raw[weekdayKey(wd)]
		if !ok {
			continue
		}
		var day DayWorkingHours
		if err := json.Unmarshal(dayRaw, &day); err != nil {
			return dayError(wd, err)
		}
		*cfg.dayPtr(wd) = day
	}

	if intervalRaw, ok := raw["appointment_interval_minutes"]; ok && string(intervalRaw) != "null" {
		var minutes int
		if err := json.Unmarshal(intervalRaw, &minutes); err != nil {
			return err
		}
		if err := cfg.SetAppointmentInterval(minutes); err != nil {
			return err
		}
	}

	*c = *cfg
	return nil
}

// dayError prefixes a day validation error with its weekday key
func dayError(weekday time.Weekday, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return newValidationError(weekdayKey(weekday)+"."+vErr.Field, vErr.Rule)
	}
	return err
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func (c *WorkingHoursConfig) dayPtr(weekday time.Weekday) *DayWorkingHours {
	switch weekday {
	case time.Monday:
		return &c.Monday
	case time.Tuesday:
		return &c.Tuesday
	case time.Wednesday:
		return &c.Wednesday
	case time.Thursday:
		return &c.Thursday
	case time.Friday:
		return &c.Friday
	case time.Saturday:
		return &c.Saturday
	default:
		return &c.Sunday
	}
}

func weekdayKey(weekday time.Weekday) string {
	switch weekday {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

func parseOptionalTime(raw string) (*types.TimeString, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := types.NewTimeStringFromString(raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func timeToString(ts *types.TimeString) *string {
	if ts == nil {
		return nil
	}
	s := ts.String()
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
