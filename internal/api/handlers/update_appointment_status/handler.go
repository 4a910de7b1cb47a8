package update_appointment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orkestre/agenda-service/internal/api/handlers"
	"github.com/orkestre/agenda-service/internal/api/middleware"
	"github.com/orkestre/agenda-service/internal/domain"
	updateStatus "github.com/orkestre/agenda-service/internal/usecase/update_appointment_status"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidAppointmentID   = "некорректный ID записи"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidStatus          = "неизвестный статус записи"
	msgNotFound               = "запись не найдена"
	msgForbidden              = "доступ запрещен"
	msgSlotTaken              = "время записи уже занято другой активной записью"
)

// transitionMessages сообщения для пользователя по причине отказа в переходе
var transitionMessages = map[domain.TransitionReason]string{
	domain.ReasonSameStatus:         "запись уже находится в этом статусе",
	domain.ReasonBlocked:            "переход в этот статус запрещен",
	domain.ReasonInProgressTooEarly: "начать обслуживание можно не раньше чем за 30 минут до начала",
	domain.ReasonInProgressTooLate:  "время записи уже прошло, начать обслуживание нельзя",
	domain.ReasonCompletedTooEarly:  "завершить запись можно только после ее начала",
	domain.ReasonNoShowTooEarly:     "отметить неявку можно только после начала записи",
	domain.ReasonPassedAppointment:  "время записи прошло, ее можно только завершить или отметить неявку",
}

type Handler struct {
	useCase UpdateAppointmentStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdateAppointmentStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/establishments/{establishmentId}/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	establishmentID, err := strconv.ParseInt(vars["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &updateStatus.Request{
		UserID:          userID,
		EstablishmentID: establishmentID,
		AppointmentID:   appointmentID,
		Status:          req.Status,
	})
	if err != nil {
		var transitionErr *domain.StatusTransitionError

		switch {
		case errors.As(err, &transitionErr):
			h.logger.Warn("PATCH /appointments/{id}/status - Transition rejected: appointment_id=%d, %s -> %s, reason=%s",
				appointmentID, transitionErr.From, transitionErr.To, transitionErr.Reason)
			handlers.RespondErrorWithReason(w, http.StatusUnprocessableEntity,
				transitionMessage(transitionErr.Reason), string(transitionErr.Reason))

		case errors.Is(err, updateStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, updateStatus.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/status - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateStatus.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/status - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateStatus.ErrSlotTaken):
			h.logger.Warn("PATCH /appointments/{id}/status - Slot taken: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotTaken)

		default:
			h.logger.Error("PATCH /appointments/{id}/status - Failed to update status: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status updated: appointment_id=%d, %s -> %s, user_id=%d",
		appointmentID, result.PreviousStatus, result.Appointment.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func transitionMessage(reason domain.TransitionReason) string {
	if msg, ok := transitionMessages[reason]; ok {
		return msg
	}
	return transitionMessages[domain.ReasonBlocked]
}
