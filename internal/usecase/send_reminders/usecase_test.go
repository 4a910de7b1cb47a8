package send_reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	"github.com/orkestre/agenda-service/pkg/logger"
	"github.com/orkestre/agenda-service/pkg/metrics"
)

type fakeAppointments struct {
	due     []*domain.Appointment
	getErr  error
	markErr map[int64]error
	stamped map[int64]time.Time
	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeAppointments) GetDueForReminder(_ context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	f.gotFrom, f.gotTo = from, to
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.due, nil
}

func (f *fakeAppointments) MarkReminderSent(_ context.Context, id int64, sentAt time.Time) error {
	if err := f.markErr[id]; err != nil {
		return err
	}
	if f.stamped == nil {
		f.stamped = map[int64]time.Time{}
	}
	f.stamped[id] = sentAt
	return nil
}

type fakeNotifier struct {
	failing  map[int64]bool
	notified []int64
}

func (f *fakeNotifier) Notify(_ context.Context, id int64) error {
	if f.failing[id] {
		return errors.New("whatsapp: 503")
	}
	f.notified = append(f.notified, id)
	return nil
}

// fakeTxManager откатывает отметки, если функция вернула ошибку
type fakeTxManager struct {
	repo *fakeAppointments
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.repo.stamped = nil
		return err
	}
	return nil
}

type fakeMetrics struct {
	results map[string]int
}

func (f *fakeMetrics) IncReminder(result string) {
	if f.results == nil {
		f.results = map[string]int{}
	}
	f.results[result]++
}

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func confirmedAt(id int64, start time.Time) *domain.Appointment {
	return &domain.Appointment{ID: id, EstablishmentID: 7, StartTime: start, EndTime: start.Add(time.Hour), Status: domain.StatusConfirmed}
}

func newTestUseCase(repo *fakeAppointments, notifier *fakeNotifier, m *fakeMetrics) *UseCase {
	return NewUseCase(repo, notifier, &fakeTxManager{repo: repo}, m, logger.NewNop(), 0)
}

func TestExecute_StampsDeliveredReminders(t *testing.T) {
	repo := &fakeAppointments{due: []*domain.Appointment{
		confirmedAt(1, now.Add(2*time.Hour)),
		confirmedAt(2, now.Add(23*time.Hour)),
	}}
	notifier := &fakeNotifier{}
	m := &fakeMetrics{}

	count, err := newTestUseCase(repo, notifier, m).Execute(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, []int64{1, 2}, notifier.notified)
	assert.Equal(t, now, repo.stamped[1])
	assert.Equal(t, now, repo.stamped[2])
	assert.Equal(t, 2, m.results[metrics.ReminderResultSent])

	// Окно (now, now+24h]
	assert.Equal(t, now, repo.gotFrom)
	assert.Equal(t, now.Add(24*time.Hour), repo.gotTo)
}

func TestExecute_DeliveryFailureDoesNotAbortBatch(t *testing.T) {
	repo := &fakeAppointments{due: []*domain.Appointment{
		confirmedAt(1, now.Add(time.Hour)),
		confirmedAt(2, now.Add(2*time.Hour)),
		confirmedAt(3, now.Add(3*time.Hour)),
	}}
	notifier := &fakeNotifier{failing: map[int64]bool{2: true}}
	m := &fakeMetrics{}

	count, err := newTestUseCase(repo, notifier, m).Execute(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Contains(t, repo.stamped, int64(1))
	assert.NotContains(t, repo.stamped, int64(2))
	assert.Contains(t, repo.stamped, int64(3))
	assert.Equal(t, 1, m.results[metrics.ReminderResultFailed])
}

func TestExecute_RepositoryFailureAbortsSweep(t *testing.T) {
	repo := &fakeAppointments{getErr: errors.New("connection refused")}
	m := &fakeMetrics{}

	count, err := newTestUseCase(repo, &fakeNotifier{}, m).Execute(context.Background(), now)
	assert.ErrorIs(t, err, ErrSweepFailed)
	assert.Zero(t, count)
	assert.Empty(t, m.results)
}

func TestExecute_StampFailureRollsBackAllStamps(t *testing.T) {
	repo := &fakeAppointments{
		due: []*domain.Appointment{
			confirmedAt(1, now.Add(time.Hour)),
			confirmedAt(2, now.Add(2*time.Hour)),
		},
		markErr: map[int64]error{2: errors.New("disk full")},
	}

	count, err := newTestUseCase(repo, &fakeNotifier{}, &fakeMetrics{}).Execute(context.Background(), now)
	assert.ErrorIs(t, err, ErrSweepFailed)
	assert.Zero(t, count)
	assert.Empty(t, repo.stamped)
}

func TestExecute_AlreadyStampedIsSkipped(t *testing.T) {
	repo := &fakeAppointments{
		due:     []*domain.Appointment{confirmedAt(1, now.Add(time.Hour))},
		markErr: map[int64]error{1: appointmentRepo.ErrReminderAlreadySent},
	}

	count, err := newTestUseCase(repo, &fakeNotifier{}, &fakeMetrics{}).Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExecute_NothingDue(t *testing.T) {
	count, err := newTestUseCase(&fakeAppointments{}, &fakeNotifier{}, &fakeMetrics{}).Execute(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, count)
}
