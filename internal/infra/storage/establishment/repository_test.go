package establishment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orkestre/agenda-service/internal/domain"
)

var columns = []string{"id", "name", "timezone", "working_hours", "created_at", "updated_at"}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, timezone, working_hours, created_at, updated_at FROM establishments WHERE id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(7), "Studio", "America/Sao_Paulo",
			[]byte(`{"monday":{"is_active":true,"start_time":"09:00","end_time":"18:00"},"appointment_interval_minutes":15}`),
			now, now,
		))

	est, err := NewRepository(db).GetByID(context.Background(), 7)
	require.NoError(t, err)

	require.NotNil(t, est.WorkingHours)
	assert.Equal(t, "America/Sao_Paulo", est.Timezone)
	assert.Equal(t, 15, est.WorkingHours.AppointmentIntervalMinutes)
	assert.True(t, est.WorkingHours.Monday.IsOpen())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM establishments").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Studio", "UTC", nil, time.Now(), time.Now()))

	est, err := NewRepository(db).GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, est.WorkingHours)
}

func TestRepository_GetByID_Corrupted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM establishments").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Studio", "UTC", []byte(`{"monday": [`), time.Now(), time.Now()))

	_, err = NewRepository(db).GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCorruptedWorkingHours)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM establishments").WillReturnRows(sqlmock.NewRows(columns))

	_, err = NewRepository(db).GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEstablishmentNotFound)
}

func TestRepository_UpdateWorkingHours(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE establishments SET working_hours = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs(sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRepository(db).UpdateWorkingHours(context.Background(), 3, domain.NewWorkingHoursConfig())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateWorkingHours_RejectsInvalid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := domain.NewWorkingHoursConfig()
	cfg.AppointmentIntervalMinutes = 0

	err = NewRepository(db).UpdateWorkingHours(context.Background(), 3, cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidWorkingHours)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetMemberRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM establishment_members WHERE establishment_id = \\$1 AND user_id = \\$2").
		WithArgs(int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("owner"))
	mock.ExpectQuery("FROM establishment_members").
		WithArgs(int64(7), int64(43)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	repo := NewRepository(db)

	role, err := repo.GetMemberRole(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, role)
	assert.True(t, role.CanManageSchedule())

	_, err = repo.GetMemberRole(context.Background(), 7, 43)
	assert.ErrorIs(t, err, ErrNotMember)
	require.NoError(t, mock.ExpectationsWereMet())
}
