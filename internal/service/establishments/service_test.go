package establishments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orkestre/agenda-service/internal/domain"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	"github.com/orkestre/agenda-service/internal/service/establishments/models"
	"github.com/orkestre/agenda-service/pkg/logger"
)

const (
	ownerID        = int64(1)
	collaboratorID = int64(2)
)

type fakeEstablishments struct {
	items     map[int64]*domain.Establishment
	members   map[int64]domain.MemberRole
	updateErr error
	updated   *domain.WorkingHoursConfig
}

func (f *fakeEstablishments) GetByID(_ context.Context, id int64) (*domain.Establishment, error) {
	est, ok := f.items[id]
	if !ok {
		return nil, establishmentRepo.ErrEstablishmentNotFound
	}
	return est, nil
}

func (f *fakeEstablishments) UpdateWorkingHours(_ context.Context, id int64, cfg *domain.WorkingHoursConfig) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	est, ok := f.items[id]
	if !ok {
		return establishmentRepo.ErrEstablishmentNotFound
	}
	f.updated = cfg
	est.WorkingHours = cfg
	return nil
}

func (f *fakeEstablishments) GetMemberRole(_ context.Context, _ int64, userID int64) (domain.MemberRole, error) {
	role, ok := f.members[userID]
	if !ok {
		return "", establishmentRepo.ErrNotMember
	}
	return role, nil
}

func newFake() *fakeEstablishments {
	return &fakeEstablishments{
		items: map[int64]*domain.Establishment{
			7: {ID: 7, Name: "Studio Bela", Timezone: "America/Sao_Paulo"},
		},
		members: map[int64]domain.MemberRole{
			ownerID:        domain.RoleOwner,
			collaboratorID: domain.RoleCollaborator,
		},
	}
}

func weekdayConfig(t *testing.T) *domain.WorkingHoursConfig {
	t.Helper()
	cfg := domain.NewWorkingHoursConfig()
	day, err := domain.NewDayWorkingHours(true, "09:00", "18:00", "12:00", "13:00")
	require.NoError(t, err)
	require.NoError(t, cfg.SetDay(time.Monday, day))
	return cfg
}

func TestGetWorkingHours_DefaultWhenNotConfigured(t *testing.T) {
	svc := NewService(newFake(), logger.NewNop())

	resp, err := svc.GetWorkingHours(context.Background(), 7)
	require.NoError(t, err)

	assert.False(t, resp.Configured)
	assert.Equal(t, "America/Sao_Paulo", resp.Timezone)
	assert.Equal(t, domain.DefaultAppointmentIntervalMinutes, resp.WorkingHours.AppointmentIntervalMinutes)
	assert.False(t, resp.WorkingHours.Monday.IsActive)
	assert.False(t, resp.WorkingHours.Sunday.IsActive)
}

func TestGetWorkingHours_Errors(t *testing.T) {
	svc := NewService(newFake(), logger.NewNop())

	_, err := svc.GetWorkingHours(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)
}

func TestUpdateWorkingHours_Owner(t *testing.T) {
	repo := newFake()
	svc := NewService(repo, logger.NewNop())
	cfg := weekdayConfig(t)

	resp, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID:          ownerID,
		EstablishmentID: 7,
		WorkingHours:    cfg,
	})
	require.NoError(t, err)

	assert.True(t, resp.Configured)
	assert.Same(t, cfg, repo.updated)
	assert.True(t, resp.WorkingHours.Monday.IsActive)
	assert.Equal(t, "12:00", resp.WorkingHours.Monday.LunchBreakStartTime.String())
}

func TestUpdateWorkingHours_AccessDenied(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
	}{
		{name: "collaborator", userID: collaboratorID},
		{name: "stranger", userID: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFake()
			svc := NewService(repo, logger.NewNop())

			_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
				UserID:          tt.userID,
				EstablishmentID: 7,
				WorkingHours:    weekdayConfig(t),
			})
			assert.ErrorIs(t, err, ErrAccessDenied)
			assert.Nil(t, repo.updated)
		})
	}
}

func TestUpdateWorkingHours_Invalid(t *testing.T) {
	svc := NewService(newFake(), logger.NewNop())

	cfg := weekdayConfig(t)
	cfg.AppointmentIntervalMinutes = 0

	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID:          ownerID,
		EstablishmentID: 7,
		WorkingHours:    cfg,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID:          ownerID,
		EstablishmentID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateWorkingHours_RepositoryFailure(t *testing.T) {
	repo := newFake()
	repo.updateErr = errors.New("connection reset")
	svc := NewService(repo, logger.NewNop())

	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID:          ownerID,
		EstablishmentID: 7,
		WorkingHours:    weekdayConfig(t),
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdateWorkingHours_RejectsDirectlyAssignedDay(t *testing.T) {
	repo := newFake()
	svc := NewService(repo, logger.NewNop())

	cfg := weekdayConfig(t)
	// Присваивание полей в обход SetDay: пустой обеденный перерыв
	cfg.Monday.LunchBreakStartTime, cfg.Monday.LunchBreakEndTime = cfg.Monday.StartTime, cfg.Monday.StartTime

	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID:          ownerID,
		EstablishmentID: 7,
		WorkingHours:    cfg,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, repo.updated)
}
