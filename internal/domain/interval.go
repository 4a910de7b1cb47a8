package domain

import "time"

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval of the given length starting at start
func NewInterval(start time.Time, duration time.Duration) Interval {
	return Interval{Start: start, End: start.Add(duration)}
}

// Overlaps reports whether two half-open intervals share at least one instant.
// Intervals that only touch (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Contains reports whether other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Overlaps is the single half-open overlap predicate used by both the
// availability read path and the booking write path
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
