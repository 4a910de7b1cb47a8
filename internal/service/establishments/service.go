package establishments

import (
	"context"
	"errors"
	"fmt"

	"github.com/orkestre/agenda-service/internal/domain"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	"github.com/orkestre/agenda-service/internal/service/establishments/models"
)

// Service сервис для работы с расписанием заведений
type Service struct {
	establishmentRepo EstablishmentRepository
	logger            Logger
}

// NewService создает новый экземпляр сервиса заведений
func NewService(establishmentRepo EstablishmentRepository, logger Logger) *Service {
	return &Service{
		establishmentRepo: establishmentRepo,
		logger:            logger,
	}
}

// GetWorkingHours получает расписание работы заведения
// Публичный метод - доступен всем. Если расписание не задано, возвращается конфигурация по умолчанию
func (s *Service) GetWorkingHours(ctx context.Context, establishmentID int64) (*models.WorkingHoursResponse, error) {
	s.logger.Info("GetWorkingHours: fetching working hours for establishment=%d", establishmentID)

	est, err := s.establishmentRepo.GetByID(ctx, establishmentID)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrEstablishmentNotFound) {
			s.logger.Warn("GetWorkingHours: establishment id=%d not found", establishmentID)
			return nil, ErrEstablishmentNotFound
		}
		s.logger.Error("GetWorkingHours: repository error for establishment id=%d: %v", establishmentID, err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}

	if est.WorkingHours == nil {
		s.logger.Info("GetWorkingHours: establishment=%d has no working hours, returning defaults", establishmentID)
	}

	return models.FromDomainEstablishment(est), nil
}

// UpdateWorkingHours заменяет расписание работы заведения
// Доступно только владельцу заведения
func (s *Service) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("UpdateWorkingHours: updating working hours for establishment=%d by user=%d", req.EstablishmentID, req.UserID)

	// 1. Валидируем расписание
	if req.WorkingHours == nil {
		s.logger.Warn("UpdateWorkingHours: working hours are missing")
		return nil, fmt.Errorf("%w: working hours are required", ErrInvalidInput)
	}
	if err := req.WorkingHours.Validate(); err != nil {
		s.logger.Warn("UpdateWorkingHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права доступа (только владелец)
	if err := s.checkOwnerAccess(ctx, req.EstablishmentID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Сохраняем расписание
	if err := s.establishmentRepo.UpdateWorkingHours(ctx, req.EstablishmentID, req.WorkingHours); err != nil {
		if errors.Is(err, establishmentRepo.ErrEstablishmentNotFound) {
			s.logger.Warn("UpdateWorkingHours: establishment id=%d not found", req.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		}
		if errors.Is(err, domain.ErrInvalidWorkingHours) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("UpdateWorkingHours: repository error for establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	// 4. Возвращаем актуальное состояние
	est, err := s.establishmentRepo.GetByID(ctx, req.EstablishmentID)
	if err != nil {
		s.logger.Error("UpdateWorkingHours: failed to reload establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - reload: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingHours: successfully updated working hours for establishment=%d", req.EstablishmentID)
	return models.FromDomainEstablishment(est), nil
}

// checkOwnerAccess проверяет, что пользователь может менять расписание заведения
func (s *Service) checkOwnerAccess(ctx context.Context, establishmentID, userID int64) error {
	role, err := s.establishmentRepo.GetMemberRole(ctx, establishmentID, userID)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrNotMember) {
			s.logger.Warn("checkOwnerAccess: user=%d is not a member of establishment=%d", userID, establishmentID)
			return ErrAccessDenied
		}
		s.logger.Error("checkOwnerAccess: failed to get role of user=%d in establishment=%d: %v", userID, establishmentID, err)
		return fmt.Errorf("%w: checkOwnerAccess - repository error: %v", ErrInternal, err)
	}

	if !role.CanManageSchedule() {
		s.logger.Warn("checkOwnerAccess: user=%d with role %s cannot change working hours", userID, role)
		return ErrAccessDenied
	}

	return nil
}
