package get_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orkestre/agenda-service/internal/api/handlers"
	"github.com/orkestre/agenda-service/internal/api/middleware"
	"github.com/orkestre/agenda-service/internal/service/appointments"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidAppointmentID   = "некорректный ID записи"
	msgNotFound               = "запись не найдена"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgForbidden              = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	establishmentID, err := strconv.ParseInt(vars["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/appointments/{id} - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /establishments/{id}/appointments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	appointment, err := h.service.GetByID(r.Context(), establishmentID, userID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /establishments/{id}/appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /establishments/{id}/appointments/{id} - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /establishments/{id}/appointments/{id} - Failed to get appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /establishments/{id}/appointments/{id} - Appointment retrieved: appointment_id=%d, user_id=%d",
		appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
