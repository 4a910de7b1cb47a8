package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("select", nil, time.Millisecond)
		m.SetDBPoolStats("postgres", 1, 1, 0, 0)
		m.IncAppointmentCreated(1)
		m.IncBookingConflict(1)
		m.IncReminder(ReminderResultSent)
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer("agenda-test", reg)

	m.IncReminder(ReminderResultSent)
	m.IncReminder(ReminderResultSent)
	m.IncReminder(ReminderResultFailed)
	m.IncBookingConflict(7)
	m.ObserveDBQuery("insert", errors.New("boom"), 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.remindersDispatched.WithLabelValues(ReminderResultSent)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.remindersDispatched.WithLabelValues(ReminderResultFailed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingConflicts.WithLabelValues("7")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.dbQueryDuration))
}
