package create_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orkestre/agenda-service/internal/api/handlers"
	createAppointment "github.com/orkestre/agenda-service/internal/usecase/create_appointment"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidStartTime       = "некорректное время начала, ожидается RFC 3339 (2026-01-05T10:00:00-03:00)"
	msgInvalidInput           = "некорректные данные записи: имя и телефон клиента обязательны"
	msgInvalidService         = "услуга не найдена или недоступна для записи"
	msgEstablishmentNotFound  = "заведение не найдено"
	msgNotConfigured          = "у заведения не настроено расписание работы"
	msgOutsideWorkingHours    = "выбранное время вне рабочих часов заведения"
	msgSlotTaken              = "выбранное время уже занято"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/establishments/{establishmentId}/appointments
// Публичный маршрут: запись создает клиент
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(mux.Vars(r)["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /establishments/{id}/appointments - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /establishments/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(establishmentID)
	if err != nil {
		h.logger.Warn("POST /establishments/{id}/appointments - Invalid start time %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotTaken):
			h.logger.Warn("POST /establishments/{id}/appointments - Slot taken: establishment_id=%d, service_id=%d, start=%s",
				establishmentID, req.ServiceID, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /establishments/{id}/appointments - Outside working hours: establishment_id=%d, start=%s",
				establishmentID, req.StartTime)
			handlers.RespondUnprocessable(w, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrNotConfigured):
			h.logger.Warn("POST /establishments/{id}/appointments - Not configured: establishment_id=%d", establishmentID)
			handlers.RespondUnprocessable(w, msgNotConfigured)

		case errors.Is(err, createAppointment.ErrInvalidService):
			h.logger.Warn("POST /establishments/{id}/appointments - Invalid service: establishment_id=%d, service_id=%d",
				establishmentID, req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidService)

		case errors.Is(err, createAppointment.ErrEstablishmentNotFound):
			h.logger.Warn("POST /establishments/{id}/appointments - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /establishments/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /establishments/{id}/appointments - Failed to create appointment: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /establishments/{id}/appointments - Appointment created: appointment_id=%d, establishment_id=%d",
		result.Appointment.ID, establishmentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
