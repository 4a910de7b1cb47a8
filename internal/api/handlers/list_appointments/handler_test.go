package list_appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orkestre/agenda-service/internal/api/middleware"
	"github.com/orkestre/agenda-service/internal/service/appointments"
	"github.com/orkestre/agenda-service/internal/service/appointments/models"
	"github.com/orkestre/agenda-service/pkg/logger"
)

type fakeService struct {
	resp *models.AppointmentListResponse
	err  error
	got  *models.ListAppointmentsRequest
}

func (f *fakeService) ListByEstablishment(_ context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.got = req
	return f.resp, f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/establishments/{establishmentId}/appointments", NewHandler(svc, logger.NewNop()).Handle)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r = r.WithContext(middleware.WithUserID(r.Context(), 42))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_PassesFilters(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentListResponse{
		Appointments: []models.AppointmentResponse{{ID: 1}, {ID: 2}},
		Limit:        10,
		Offset:       20,
	}}

	w := serve(svc, "/establishments/7/appointments?startDate=2026-01-05&endDate=2026-01-06&status=confirmed&limit=10&offset=20")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.got)
	assert.Equal(t, int64(42), svc.got.UserID)
	assert.Equal(t, int64(7), svc.got.EstablishmentID)
	require.NotNil(t, svc.got.StartDate)
	assert.Equal(t, 5, svc.got.StartDate.Day())
	require.NotNil(t, svc.got.EndDate)
	assert.Equal(t, 6, svc.got.EndDate.Day())
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.Equal(t, uint64(10), svc.got.Limit)
	assert.Equal(t, uint64(20), svc.got.Offset)

	var body models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Appointments, 2)
}

func TestHandle_NoFilters(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}}

	w := serve(svc, "/establishments/7/appointments")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Nil(t, svc.got.StartDate)
	assert.Nil(t, svc.got.EndDate)
	assert.Nil(t, svc.got.Status)
	assert.Zero(t, svc.got.Limit)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad date", target: "/establishments/7/appointments?startDate=05-01-2026", wantStatus: http.StatusBadRequest},
		{name: "bad limit", target: "/establishments/7/appointments?limit=-1", wantStatus: http.StatusBadRequest},
		{name: "forbidden", target: "/establishments/7/appointments", err: appointments.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "not found", target: "/establishments/7/appointments", err: appointments.ErrEstablishmentNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid filter", target: "/establishments/7/appointments?status=archived", err: appointments.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/establishments/7/appointments", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
