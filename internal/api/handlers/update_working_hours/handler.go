package update_working_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orkestre/agenda-service/internal/api/handlers"
	"github.com/orkestre/agenda-service/internal/api/middleware"
	"github.com/orkestre/agenda-service/internal/domain"
	"github.com/orkestre/agenda-service/internal/service/establishments"
	"github.com/orkestre/agenda-service/internal/service/establishments/models"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidData            = "некорректное расписание работы"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgNotFound               = "заведение не найдено"
	msgForbidden              = "изменять расписание может только владелец заведения"
)

type Handler struct {
	service EstablishmentService
	logger  Logger
}

func NewHandler(service EstablishmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/establishments/{establishmentId}/working-hours
// Тело запроса - расписание целиком, в том же формате, что отдает GET
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(mux.Vars(r)["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /establishments/{id}/working-hours - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /establishments/{id}/working-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var cfg domain.WorkingHoursConfig
	if err := handlers.DecodeJSON(r, &cfg); err != nil {
		h.logger.Warn("PUT /establishments/{id}/working-hours - Invalid request body: %v", err)
		respondDecodeError(w, err)
		return
	}

	result, err := h.service.UpdateWorkingHours(r.Context(), &models.UpdateWorkingHoursRequest{
		UserID:          userID,
		EstablishmentID: establishmentID,
		WorkingHours:    &cfg,
	})
	if err != nil {
		switch {
		case errors.Is(err, establishments.ErrAccessDenied):
			h.logger.Warn("PUT /establishments/{id}/working-hours - Access denied: establishment_id=%d, user_id=%d",
				establishmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, establishments.ErrEstablishmentNotFound):
			h.logger.Warn("PUT /establishments/{id}/working-hours - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, establishments.ErrInvalidInput):
			h.logger.Warn("PUT /establishments/{id}/working-hours - Invalid data: establishment_id=%d, error=%v",
				establishmentID, err)
			respondDecodeError(w, err)

		default:
			h.logger.Error("PUT /establishments/{id}/working-hours - Failed to update working hours: establishment_id=%d, error=%v",
				establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /establishments/{id}/working-hours - Working hours updated: establishment_id=%d, user_id=%d",
		establishmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// respondDecodeError для нарушенного правила расписания отдает имя поля в reason
func respondDecodeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		handlers.RespondErrorWithReason(w, http.StatusBadRequest, msgInvalidData, vErr.Field)
		return
	}
	if errors.Is(err, domain.ErrInvalidWorkingHours) {
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}
	handlers.RespondBadRequest(w, msgInvalidRequestBody)
}
