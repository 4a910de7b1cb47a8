package appointments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	"github.com/orkestre/agenda-service/internal/service/appointments/models"
	"github.com/orkestre/agenda-service/pkg/logger"
	"github.com/orkestre/agenda-service/pkg/ptr"
)

type fakeAppointments struct {
	items      []*domain.Appointment
	err        error
	lastFilter *domain.AppointmentsFilter
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointments) GetByEstablishmentWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = &filter
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeEstablishments struct {
	items     map[int64]*domain.Establishment
	members   map[int64]domain.MemberRole
	corrupted map[int64]bool
}

func (f *fakeEstablishments) GetMemberRole(_ context.Context, _ int64, userID int64) (domain.MemberRole, error) {
	role, ok := f.members[userID]
	if !ok {
		return "", establishmentRepo.ErrNotMember
	}
	return role, nil
}

func (f *fakeEstablishments) GetByID(_ context.Context, id int64) (*domain.Establishment, error) {
	est, ok := f.items[id]
	if !ok {
		return nil, establishmentRepo.ErrEstablishmentNotFound
	}
	if f.corrupted[id] {
		return est, fmt.Errorf("%w: establishment id=%d: unexpected end of JSON input", establishmentRepo.ErrCorruptedWorkingHours, id)
	}
	return est, nil
}

const userID = int64(42)

func newTestService(appts *fakeAppointments) *Service {
	return NewService(appts, &fakeEstablishments{
		items: map[int64]*domain.Establishment{
			7: {ID: 7, Name: "Studio Bela", Timezone: "America/Sao_Paulo"},
			8: {ID: 8, Name: "Sem fuso", Timezone: ""},
		},
		members: map[int64]domain.MemberRole{userID: domain.RoleCollaborator},
	}, logger.NewNop())
}

func sampleAppointment() *domain.Appointment {
	start := time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID: 1, EstablishmentID: 7, ServiceID: 11, Status: domain.StatusPending,
		StartTime: start, EndTime: start.Add(time.Hour),
		CustomerName: "Maria", CustomerPhone: "11912345678",
	}
}

func TestGetByID(t *testing.T) {
	svc := newTestService(&fakeAppointments{items: []*domain.Appointment{sampleAppointment()}})

	resp, err := svc.GetByID(context.Background(), 7, userID, 1)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC), resp.EndTime)

	_, err = svc.GetByID(context.Background(), 8, userID, 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.GetByID(context.Background(), 7, userID, 2)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	svc := newTestService(&fakeAppointments{err: errors.New("boom")})

	_, err := svc.GetByID(context.Background(), 7, userID, 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestListByEstablishment_LocalDateRange(t *testing.T) {
	appts := &fakeAppointments{items: []*domain.Appointment{sampleAppointment()}}
	svc := newTestService(appts)

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	resp, err := svc.ListByEstablishment(context.Background(), &models.ListAppointmentsRequest{
		UserID:          userID,
		EstablishmentID: 7,
		StartDate:       &day,
		EndDate:         &day,
		Status:          ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	require.NotNil(t, appts.lastFilter)
	assert.Equal(t, time.Date(2026, 1, 5, 3, 0, 0, 0, time.UTC), appts.lastFilter.StartFrom.UTC())
	assert.Equal(t, time.Date(2026, 1, 6, 3, 0, 0, 0, time.UTC), appts.lastFilter.StartTo.UTC())
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusPending}, appts.lastFilter.Statuses)
	assert.Equal(t, uint64(domain.DefaultListLimit), resp.Limit)
}

func TestListByEstablishment_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	appts := &fakeAppointments{}
	svc := newTestService(appts)

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	resp, err := svc.ListByEstablishment(context.Background(), &models.ListAppointmentsRequest{UserID: userID, EstablishmentID: 8, StartDate: &day})
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointments)
	assert.Equal(t, day, appts.lastFilter.StartFrom.UTC())
	assert.Nil(t, appts.lastFilter.StartTo)
}

func TestListByEstablishment_Errors(t *testing.T) {
	svc := newTestService(&fakeAppointments{})
	ctx := context.Background()
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, err := svc.ListByEstablishment(ctx, &models.ListAppointmentsRequest{UserID: userID, EstablishmentID: 404})
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)

	_, err = svc.ListByEstablishment(ctx, &models.ListAppointmentsRequest{UserID: userID, EstablishmentID: 7, StartDate: &from, EndDate: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListByEstablishment(ctx, &models.ListAppointmentsRequest{UserID: userID, EstablishmentID: 7, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListByEstablishment(ctx, &models.ListAppointmentsRequest{UserID: userID, EstablishmentID: 7, Limit: domain.MaxListLimit + 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAccessDenied(t *testing.T) {
	svc := newTestService(&fakeAppointments{items: []*domain.Appointment{sampleAppointment()}})

	_, err := svc.GetByID(context.Background(), 7, 99, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ListByEstablishment(context.Background(), &models.ListAppointmentsRequest{UserID: 99, EstablishmentID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListByEstablishment_CorruptedWorkingHoursStillLists(t *testing.T) {
	appts := &fakeAppointments{items: []*domain.Appointment{sampleAppointment()}}
	svc := newTestService(appts)
	svc.establishmentRepo.(*fakeEstablishments).corrupted = map[int64]bool{7: true}

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	resp, err := svc.ListByEstablishment(context.Background(), &models.ListAppointmentsRequest{
		UserID:          userID,
		EstablishmentID: 7,
		StartDate:       &day,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	// Часовой пояс заведения все равно применяется
	assert.Equal(t, time.Date(2026, 1, 5, 3, 0, 0, 0, time.UTC), appts.lastFilter.StartFrom.UTC())
}
