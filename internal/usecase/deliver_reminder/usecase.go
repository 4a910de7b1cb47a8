package deliver_reminder

import (
	"context"
	"errors"
	"fmt"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	"github.com/orkestre/agenda-service/internal/integrations/whatsapp"
)

// UseCase use case для отправки напоминания по одной записи
type UseCase struct {
	appointmentRepo   AppointmentRepository
	establishmentRepo EstablishmentRepository
	serviceRepo       ServiceRepository
	sender            Sender
	countryCode       string
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	establishmentRepo EstablishmentRepository,
	serviceRepo ServiceRepository,
	sender Sender,
	countryCode string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:   appointmentRepo,
		establishmentRepo: establishmentRepo,
		serviceRepo:       serviceRepo,
		sender:            sender,
		countryCode:       countryCode,
		logger:            logger,
	}
}

// Notify отправляет напоминание синхронно (режим direct)
func (uc *UseCase) Notify(ctx context.Context, appointmentID int64) error {
	return uc.Execute(ctx, appointmentID)
}

// Execute выполняет use case отправки напоминания
func (uc *UseCase) Execute(ctx context.Context, appointmentID int64) error {
	uc.logger.Info("DeliverReminder: appointment=%d", appointmentID)

	// 1. Загружаем запись
	appt, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("DeliverReminder: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		uc.logger.Error("DeliverReminder: failed to get appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// Запись могли отменить, пока задача ждала в очереди
	if appt.Status != domain.StatusConfirmed {
		uc.logger.Info("DeliverReminder: appointment id=%d is %s, skipping", appt.ID, appt.Status)
		return ErrNotConfirmed
	}

	// 2. Услуга и заведение для текста сообщения
	service, err := uc.serviceRepo.GetByID(ctx, appt.ServiceID)
	if err != nil {
		uc.logger.Error("DeliverReminder: failed to get service id=%d: %v", appt.ServiceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	establishment, err := uc.establishmentRepo.GetByID(ctx, appt.EstablishmentID)
	if err != nil {
		uc.logger.Error("DeliverReminder: failed to get establishment id=%d: %v", appt.EstablishmentID, err)
		return fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
	}

	// 3. Номер получателя
	primary, fallback, err := normalizePhone(appt.CustomerPhone, uc.countryCode)
	if err != nil {
		uc.logger.Warn("DeliverReminder: appointment id=%d has unusable phone", appt.ID)
		return err
	}

	body := buildMessage(appt, service, establishment)

	// 4. Отправка; при отказе по номеру пробуем формат без девятой цифры
	messageID, err := uc.sender.SendText(ctx, primary, body)
	if err != nil && errors.Is(err, whatsapp.ErrRecipientRejected) && fallback != "" {
		uc.logger.Warn("DeliverReminder: recipient rejected for appointment id=%d, retrying without ninth digit", appt.ID)
		messageID, err = uc.sender.SendText(ctx, fallback, body)
	}
	if err != nil {
		uc.logger.Error("DeliverReminder: failed to send reminder for appointment id=%d: %v", appt.ID, err)
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	uc.logger.Info("DeliverReminder: reminder for appointment id=%d sent, message=%s", appt.ID, messageID)
	return nil
}
