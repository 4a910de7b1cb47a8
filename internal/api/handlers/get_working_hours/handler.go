package get_working_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/orkestre/agenda-service/internal/api/handlers"
	"github.com/orkestre/agenda-service/internal/service/establishments"
)

const (
	msgInvalidEstablishmentID = "некорректный ID заведения"
	msgNotFound               = "заведение не найдено"
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

// Handle GET /api/v1/establishments/{establishmentId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(mux.Vars(r)["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /establishments/{id}/working-hours - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	result, err := h.service.GetWorkingHours(r.Context(), establishmentID)
	if err != nil {
		if errors.Is(err, establishments.ErrEstablishmentNotFound) {
			h.logger.Warn("GET /establishments/{id}/working-hours - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /establishments/{id}/working-hours - Failed to get working hours: establishment_id=%d, error=%v",
			establishmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
