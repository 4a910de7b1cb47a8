package establishment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/orkestre/agenda-service/internal/domain"
	"github.com/orkestre/agenda-service/pkg/dbmetrics"
	"github.com/orkestre/agenda-service/pkg/psqlbuilder"
)

// Repository репозиторий заведений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заведений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает заведение вместе с расписанием работы
// Расписание хранится в JSONB и валидируется при чтении:
// если документ поврежден, возвращается ErrCorruptedWorkingHours
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Establishment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"working_hours",
		"created_at",
		"updated_at",
	).
		From("establishments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var est domain.Establishment
	var workingHours []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&est.ID,
		&est.Name,
		&est.Timezone,
		&workingHours,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEstablishmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan establishment: %v", ErrScanRow, err)
	}

	est.CreatedAt = createdAt.Time
	est.UpdatedAt = updatedAt.Time

	est.WorkingHours, err = decodeWorkingHours(workingHours)
	if err != nil {
		return &est, fmt.Errorf("%w: GetByID - establishment id=%d: %v", ErrCorruptedWorkingHours, id, err)
	}

	return &est, nil
}

// UpdateWorkingHours сохраняет расписание работы заведения
// Невалидное расписание в БД не пишется
func (r *Repository) UpdateWorkingHours(ctx context.Context, id int64, cfg *domain.WorkingHoursConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - marshal working hours: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("establishments").
		Set("working_hours", string(payload)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEstablishmentNotFound
	}

	return nil
}

// GetMemberRole возвращает роль пользователя в заведении
func (r *Repository) GetMemberRole(ctx context.Context, establishmentID, userID int64) (domain.MemberRole, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("role").
		From("establishment_members").
		Where(squirrel.Eq{"establishment_id": establishmentID, "user_id": userID}).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: GetMemberRole - build select query: %v", ErrBuildQuery, err)
	}

	var role string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotMember
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetMemberRole - scan role: %v", ErrScanRow, err)
	}

	return domain.MemberRole(role), nil
}

// decodeWorkingHours NULL в колонке означает, что расписание еще не настроено
func decodeWorkingHours(raw []byte) (*domain.WorkingHoursConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var cfg domain.WorkingHoursConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
