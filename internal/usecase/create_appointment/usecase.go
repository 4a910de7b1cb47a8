package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	serviceRepo "github.com/orkestre/agenda-service/internal/infra/storage/service"
	"github.com/orkestre/agenda-service/pkg/txmanager"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo   AppointmentRepository
	establishmentRepo EstablishmentRepository
	serviceRepo       ServiceRepository
	txManager         TransactionManager
	metrics           Metrics
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	establishmentRepo EstablishmentRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:   appointmentRepo,
		establishmentRepo: establishmentRepo,
		serviceRepo:       serviceRepo,
		txManager:         txManager,
		metrics:           metrics,
		logger:            logger,
	}
}

// Execute выполняет use case создания записи
// Все проверки выполняются внутри одной SERIALIZABLE транзакции под advisory-блокировкой заведения,
// поэтому две параллельные записи на пересекающиеся интервалы не могут быть созданы одновременно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: establishment=%d, service=%d, start=%s",
		req.EstablishmentID, req.ServiceID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Блокируем заведение до конца транзакции
		if err := uc.appointmentRepo.LockEstablishment(txCtx, req.EstablishmentID); err != nil {
			uc.logger.Error("CreateAppointment: failed to lock establishment id=%d: %v", req.EstablishmentID, err)
			return fmt.Errorf("%w: failed to lock establishment: %w", ErrInternal, err)
		}

		// 3. Проверяем услугу
		service, err := uc.serviceRepo.GetByID(txCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
				return fmt.Errorf("%w: service %d not found", ErrInvalidService, req.ServiceID)
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.IsBookableAt(req.EstablishmentID) {
			uc.logger.Warn("CreateAppointment: service id=%d is not bookable at establishment id=%d (owner=%d, active=%t)",
				service.ID, req.EstablishmentID, service.EstablishmentID, service.IsActive)
			return fmt.Errorf("%w: service %d is not bookable at this establishment", ErrInvalidService, service.ID)
		}

		// 4. Получаем заведение и его расписание
		establishment, err := uc.establishmentRepo.GetByID(txCtx, req.EstablishmentID)
		if err != nil {
			switch {
			case errors.Is(err, establishmentRepo.ErrEstablishmentNotFound):
				uc.logger.Warn("CreateAppointment: establishment id=%d not found", req.EstablishmentID)
				return ErrEstablishmentNotFound
			case errors.Is(err, establishmentRepo.ErrCorruptedWorkingHours):
				uc.logger.Error("CreateAppointment: corrupted working hours for establishment id=%d: %v", req.EstablishmentID, err)
				return fmt.Errorf("%w: corrupted working hours: %v", ErrInternal, err)
			default:
				uc.logger.Error("CreateAppointment: failed to get establishment id=%d: %v", req.EstablishmentID, err)
				return fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
			}
		}

		if !establishment.IsConfigured() {
			uc.logger.Warn("CreateAppointment: establishment id=%d has no working hours", establishment.ID)
			return ErrNotConfigured
		}

		loc, err := establishment.Location()
		if err != nil {
			uc.logger.Warn("CreateAppointment: establishment id=%d has invalid timezone %q", establishment.ID, establishment.Timezone)
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}

		// 5. Интервал должен целиком лежать в рабочих часах и не задевать обед
		interval := domain.NewInterval(req.StartTime.UTC(), service.Duration())
		if !establishment.WorkingHours.Admits(interval, loc) {
			uc.logger.Warn("CreateAppointment: interval %s-%s is outside working hours of establishment id=%d",
				interval.Start.In(loc).Format(domain.TimeFormat), interval.End.In(loc).Format(domain.TimeFormat), establishment.ID)
			return ErrOutsideWorkingHours
		}

		// 6. Проверяем пересечения с активными записями за локальные сутки
		window := domain.DayWindow(interval.Start.In(loc), loc)
		existing, err := uc.appointmentRepo.GetByEstablishmentWithFilter(txCtx, domain.AppointmentsFilter{
			EstablishmentID: establishment.ID,
			StartFrom:       &window.Start,
			StartTo:         &window.End,
			Statuses:        domain.SlotBlockingStatuses,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		for _, appt := range existing {
			if appt.BlocksSlot() && interval.Overlaps(appt.Interval()) {
				uc.logger.Warn("CreateAppointment: interval overlaps appointment id=%d (%s)", appt.ID, appt.Status)
				return ErrSlotTaken
			}
		}

		// 7. Создаем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			EstablishmentID: establishment.ID,
			ServiceID:       service.ID,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
			CustomerEmail:   req.CustomerEmail,
			StartTime:       interval.Start,
			EndTime:         interval.End,
			Status:          domain.StatusPending,
			NotesByCustomer: req.NotesByCustomer,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrOverlap) {
				uc.logger.Warn("CreateAppointment: overlap rejected by constraint for establishment id=%d", establishment.ID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = &Response{
			Appointment: created,
			ServiceName: service.Name,
			Timezone:    establishment.Timezone,
		}

		return nil
	})

	if err != nil {
		// Конкурентная транзакция заняла интервал раньше
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateAppointment: serialization conflict for establishment id=%d: %v", req.EstablishmentID, err)
			err = ErrSlotTaken
		}
		if errors.Is(err, ErrSlotTaken) {
			uc.metrics.IncBookingConflict(req.EstablishmentID)
			return nil, ErrSlotTaken
		}
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.IncAppointmentCreated(req.EstablishmentID)
	uc.logger.Info("CreateAppointment: created appointment id=%d for establishment=%d at %s",
		result.Appointment.ID, req.EstablishmentID, result.Appointment.StartTime.Format(time.RFC3339))

	return result, nil
}

// isDomainError отличает ожидаемые отказы от внутренних ошибок
func isDomainError(err error) bool {
	return errors.Is(err, ErrInvalidService) ||
		errors.Is(err, ErrEstablishmentNotFound) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrOutsideWorkingHours) ||
		errors.Is(err, ErrInternal)
}
