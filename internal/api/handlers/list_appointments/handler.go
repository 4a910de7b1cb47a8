package list_appointments

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
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidParams          = "некорректные параметры запроса"
	msgForbidden              = "доступ запрещен"
	msgEstablishmentNotFound  = "заведение не найдено"
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

// Handle GET /api/v1/establishments/{establishmentId}/appointments
// Query params: startDate, endDate (YYYY-MM-DD), status, limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(mux.Vars(r)["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/appointments - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /establishments/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(establishmentID, userID,
		query.Get("startDate"), query.Get("endDate"), query.Get("status"), query.Get("limit"), query.Get("offset"))
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что пользователь состоит в заведении
	result, err := h.service.ListByEstablishment(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /establishments/{id}/appointments - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrEstablishmentNotFound):
			h.logger.Warn("GET /establishments/{id}/appointments - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /establishments/{id}/appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /establishments/{id}/appointments - Failed to list appointments: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /establishments/{id}/appointments - Appointments retrieved: establishment_id=%d, count=%d",
		establishmentID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
