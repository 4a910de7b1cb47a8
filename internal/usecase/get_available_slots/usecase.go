package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/orkestre/agenda-service/internal/domain"
	establishmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/establishment"
	serviceRepo "github.com/orkestre/agenda-service/internal/infra/storage/service"
	"github.com/orkestre/agenda-service/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo   AppointmentRepository
	establishmentRepo EstablishmentRepository
	serviceRepo       ServiceRepository
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	establishmentRepo EstablishmentRepository,
	serviceRepo ServiceRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:   appointmentRepo,
		establishmentRepo: establishmentRepo,
		serviceRepo:       serviceRepo,
		logger:            logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Отсутствие или некорректность настроек заведения (часовой пояс, расписание)
// дает пустой список, а не ошибку: это публичный путь чтения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: establishment=%d, service=%d, date=%s",
		req.EstablishmentID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем заведение
	establishment, err := uc.establishmentRepo.GetByID(ctx, req.EstablishmentID)
	if err != nil {
		switch {
		case errors.Is(err, establishmentRepo.ErrEstablishmentNotFound):
			uc.logger.Warn("GetAvailableSlots: establishment id=%d not found", req.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		case errors.Is(err, establishmentRepo.ErrCorruptedWorkingHours):
			uc.logger.Error("GetAvailableSlots: corrupted working hours for establishment id=%d: %v", req.EstablishmentID, err)
			return nil, fmt.Errorf("%w: corrupted working hours: %v", ErrInternal, err)
		default:
			uc.logger.Error("GetAvailableSlots: failed to get establishment id=%d: %v", req.EstablishmentID, err)
			return nil, fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
		}
	}

	response := &Response{
		Date:            req.Date,
		EstablishmentID: req.EstablishmentID,
		ServiceID:       req.ServiceID,
		Timezone:        establishment.Timezone,
		Slots:           []types.TimeString{},
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.EstablishmentID != establishment.ID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to establishment id=%d, not %d",
			service.ID, service.EstablishmentID, establishment.ID)
		return nil, ErrServiceNotFound
	}

	if !service.IsActive || service.DurationMinutes <= 0 {
		uc.logger.Info("GetAvailableSlots: service id=%d is not bookable", service.ID)
		return response, nil
	}

	// 4. Часовой пояс и расписание
	loc, err := establishment.Location()
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: establishment id=%d has invalid timezone %q", establishment.ID, establishment.Timezone)
		return response, nil
	}

	if !establishment.IsConfigured() {
		uc.logger.Info("GetAvailableSlots: establishment id=%d has no working hours", establishment.ID)
		return response, nil
	}

	// 5. Кандидаты: рабочие часы минус обед
	candidates := establishment.WorkingHours.CandidateSlots(req.Date, loc, service.Duration())
	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: establishment id=%d is closed on %s", establishment.ID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Активные записи за локальные сутки
	window := domain.DayWindow(req.Date, loc)
	filter := domain.AppointmentsFilter{
		EstablishmentID: establishment.ID,
		StartFrom:       &window.Start,
		StartTo:         &window.End,
		Statuses:        domain.SlotBlockingStatuses,
	}

	appointments, err := uc.appointmentRepo.GetByEstablishmentWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Убираем слоты, пересекающиеся с существующими записями
	response.Slots = freeSlots(candidates, appointments)

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for establishment=%d, service=%d, date=%s",
		len(response.Slots), len(candidates), establishment.ID, service.ID, req.Date.Format(domain.DateFormat))

	return response, nil
}

// freeSlots оставляет слоты, которые не пересекаются ни с одной записью
// Граничащие интервалы (конец одной записи = начало слота) пересечением не считаются
func freeSlots(candidates []domain.AvailableSlot, appointments []*domain.Appointment) []types.TimeString {
	result := make([]types.TimeString, 0, len(candidates))

	for _, slot := range candidates {
		occupied := false
		for _, appt := range appointments {
			if appt.BlocksSlot() && slot.Interval().Overlaps(appt.Interval()) {
				occupied = true
				break
			}
		}
		if !occupied {
			result = append(result, slot.StartTime)
		}
	}

	return result
}
