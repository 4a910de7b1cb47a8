package update_appointment_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
)

// UseCase use case для смены статуса записи
type UseCase struct {
	appointmentRepo   AppointmentRepository
	establishmentRepo EstablishmentRepository
	txManager         TransactionManager
	timeProvider      TimeProvider
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	establishmentRepo EstablishmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:   appointmentRepo,
		establishmentRepo: establishmentRepo,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
	}
}

// Execute выполняет use case смены статуса
// Ошибки перехода возвращаются как *domain.StatusTransitionError (errors.Is(err, domain.ErrInvalidTransition))
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointmentStatus: establishment=%d, appointment=%d, status=%s by user=%d",
		req.EstablishmentID, req.AppointmentID, req.Status, req.UserID)

	// 1. Валидация входных данных
	next, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateAppointmentStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа (владелец или сотрудник)
	if err := uc.checkMemberAccess(ctx, req.EstablishmentID, req.UserID); err != nil {
		return nil, err
	}

	var result *Response

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3. Загружаем запись с блокировкой строки
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateAppointmentStatus: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointmentStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if appt.EstablishmentID != req.EstablishmentID {
			uc.logger.Warn("UpdateAppointmentStatus: appointment id=%d belongs to establishment id=%d, not %d",
				appt.ID, appt.EstablishmentID, req.EstablishmentID)
			return ErrAppointmentNotFound
		}

		// 4. Проверяем переход по таблице и по времени
		if err := domain.ValidateStatusTransition(appt, next, uc.timeProvider.Now()); err != nil {
			uc.logger.Warn("UpdateAppointmentStatus: transition %s -> %s rejected for appointment id=%d: %v",
				appt.Status, next, appt.ID, err)
			return err
		}

		// 5. Сохраняем новый статус
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, next); err != nil {
			if errors.Is(err, appointmentRepo.ErrOverlap) {
				uc.logger.Warn("UpdateAppointmentStatus: appointment id=%d overlaps an active appointment", appt.ID)
				return ErrSlotTaken
			}
			uc.logger.Error("UpdateAppointmentStatus: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		previous := appt.Status
		appt.Status = next
		result = &Response{Appointment: appt, PreviousStatus: previous}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) ||
			errors.Is(err, ErrAppointmentNotFound) ||
			errors.Is(err, ErrSlotTaken) ||
			errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("UpdateAppointmentStatus: appointment id=%d moved %s -> %s",
		result.Appointment.ID, result.PreviousStatus, result.Appointment.Status)

	return result, nil
}

func (uc *UseCase) checkMemberAccess(ctx context.Context, establishmentID, userID int64) error {
	role, err := uc.establishmentRepo.GetMemberRole(ctx, establishmentID, userID)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrNotMember) {
			uc.logger.Warn("UpdateAppointmentStatus: user=%d is not a member of establishment=%d", userID, establishmentID)
			return ErrAccessDenied
		}
		uc.logger.Error("UpdateAppointmentStatus: failed to get role of user=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to get member role: %v", ErrInternal, err)
	}

	if !role.CanManageAppointments() {
		uc.logger.Warn("UpdateAppointmentStatus: role %s of user=%d cannot manage appointments", role, userID)
		return ErrAccessDenied
	}

	return nil
}
