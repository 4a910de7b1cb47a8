package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	"github.com/orkestre/agenda-service/internal/service/appointments/models"
)

// Service сервис чтения записей
type Service struct {
	appointmentRepo   AppointmentRepository
	establishmentRepo EstablishmentRepository
	logger            Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	establishmentRepo EstablishmentRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo:   appointmentRepo,
		establishmentRepo: establishmentRepo,
		logger:            logger,
	}
}

// GetByID получает запись заведения по ID
// Доступно только сотрудникам заведения; запись другого заведения считается ненайденной
func (s *Service) GetByID(ctx context.Context, establishmentID, userID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for establishment=%d by user=%d", id, establishmentID, userID)

	if err := s.checkMemberAccess(ctx, establishmentID, userID); err != nil {
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.EstablishmentID != establishmentID {
		s.logger.Warn("GetByID: appointment id=%d belongs to establishment=%d, requested by %d", id, appt.EstablishmentID, establishmentID)
		return nil, ErrAppointmentNotFound
	}

	return models.FromDomainAppointment(appt), nil
}

// ListByEstablishment получает записи заведения с фильтрацией по периоду, статусу и пагинацией
//
// Примеры использования:
// - Все записи, новые сначала: ListByEstablishment(ctx, &ListAppointmentsRequest{EstablishmentID: 7})
// - Записи на дату: StartDate и EndDate указывают на одну дату
// - Только подтвержденные: Status = "confirmed"
func (s *Service) ListByEstablishment(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("ListByEstablishment: fetching appointments for establishment=%d", req.EstablishmentID)
	if req.StartDate != nil {
		logMsg += fmt.Sprintf(", from=%s", req.StartDate.Format(domain.DateFormat))
	}
	if req.EndDate != nil {
		logMsg += fmt.Sprintf(", to=%s", req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if err := s.checkMemberAccess(ctx, req.EstablishmentID, req.UserID); err != nil {
		return nil, err
	}

	// Часовой пояс заведения нужен, чтобы перевести локальные даты в UTC
	// Поврежденное расписание не мешает списку: нужен только часовой пояс
	establishment, err := s.establishmentRepo.GetByID(ctx, req.EstablishmentID)
	if errors.Is(err, establishmentRepo.ErrCorruptedWorkingHours) && establishment != nil {
		s.logger.Error("ListByEstablishment: establishment id=%d has corrupted working hours, listing anyway: %v", req.EstablishmentID, err)
		err = nil
	}
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrEstablishmentNotFound) {
			s.logger.Warn("ListByEstablishment: establishment id=%d not found", req.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		}
		s.logger.Error("ListByEstablishment: repository error for establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: ListByEstablishment - establishment lookup: %v", ErrInternal, err)
	}

	loc, err := establishment.Location()
	if err != nil {
		s.logger.Warn("ListByEstablishment: establishment id=%d has invalid timezone %q, using UTC", establishment.ID, establishment.Timezone)
		loc = time.UTC
	}

	filter, err := req.ToDomainFilter(loc)
	if err != nil {
		s.logger.Warn("ListByEstablishment: invalid filter for establishment=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByEstablishmentWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByEstablishment: repository error for establishment=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: ListByEstablishment - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByEstablishment: fetched %d appointments for establishment=%d", len(appointments), req.EstablishmentID)
	return models.FromDomainAppointmentList(appointments, filter), nil
}

// checkMemberAccess проверяет, что пользователь состоит в заведении
func (s *Service) checkMemberAccess(ctx context.Context, establishmentID, userID int64) error {
	role, err := s.establishmentRepo.GetMemberRole(ctx, establishmentID, userID)
	if err != nil {
		if errors.Is(err, establishmentRepo.ErrNotMember) {
			s.logger.Warn("checkMemberAccess: user=%d is not a member of establishment=%d", userID, establishmentID)
			return ErrAccessDenied
		}
		s.logger.Error("checkMemberAccess: failed to get role of user=%d in establishment=%d: %v", userID, establishmentID, err)
		return fmt.Errorf("%w: checkMemberAccess - repository error: %v", ErrInternal, err)
	}

	if !role.CanManageAppointments() {
		s.logger.Warn("checkMemberAccess: role %s of user=%d cannot view appointments", role, userID)
		return ErrAccessDenied
	}

	return nil
}
