package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orkestre/agenda-service/internal/api/handlers"
	getAvailableSlots "github.com/orkestre/agenda-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgInvalidServiceID       = "некорректный ID услуги"
	msgMissingServiceID       = "ID услуги обязателен"
	msgMissingDate            = "дата обязательна"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgEstablishmentNotFound  = "заведение не найдено"
	msgServiceNotFound        = "услуга не найдена"
	msgInvalidParams          = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD, дата заведения)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	establishmentID, err := strconv.ParseInt(vars["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/available-slots - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /establishments/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /establishments/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(establishmentID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrEstablishmentNotFound):
			h.logger.Warn("GET /establishments/{id}/available-slots - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /establishments/{id}/available-slots - Service not found: establishment_id=%d, service_id=%d",
				establishmentID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /establishments/{id}/available-slots - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /establishments/{id}/available-slots - Failed to get slots: establishment_id=%d, service_id=%d, error=%v",
				establishmentID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /establishments/{id}/available-slots - Slots retrieved: establishment_id=%d, service_id=%d, slots_count=%d",
		establishmentID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
