package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/orkestre/agenda-service/internal/usecase/get_available_slots"
	"github.com/orkestre/agenda-service/pkg/logger"
	"github.com/orkestre/agenda-service/pkg/types"
)

type fakeUseCase struct {
	resp *getAvailableSlots.Response
	err  error
	got  *getAvailableSlots.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/establishments/{establishmentId}/available-slots", NewHandler(uc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:            time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EstablishmentID: 7,
		ServiceID:       3,
		Timezone:        "America/Sao_Paulo",
		Slots:           []types.TimeString{"09:00", "09:30", "13:00"},
	}}

	w := serve(uc, "/establishments/7/available-slots?serviceId=3&date=2026-01-05")
	require.Equal(t, http.StatusOK, w.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-01-05", body.Date)
	assert.Equal(t, []string{"09:00", "09:30", "13:00"}, body.Slots)
	assert.Equal(t, "America/Sao_Paulo", body.Timezone)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.EstablishmentID)
	assert.Equal(t, int64(3), uc.got.ServiceID)
	assert.Equal(t, 5, uc.got.Date.Day())
}

func TestHandle_EmptySlotsAreArray(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{Date: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)}}

	w := serve(uc, "/establishments/7/available-slots?serviceId=3&date=2026-01-04")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad establishment", target: "/establishments/x/available-slots?serviceId=3&date=2026-01-05", wantStatus: http.StatusBadRequest},
		{name: "missing service", target: "/establishments/7/available-slots?date=2026-01-05", wantStatus: http.StatusBadRequest},
		{name: "bad service", target: "/establishments/7/available-slots?serviceId=x&date=2026-01-05", wantStatus: http.StatusBadRequest},
		{name: "missing date", target: "/establishments/7/available-slots?serviceId=3", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/establishments/7/available-slots?serviceId=3&date=05/01/2026", wantStatus: http.StatusBadRequest},
		{name: "establishment not found", target: "/establishments/7/available-slots?serviceId=3&date=2026-01-05",
			err: getAvailableSlots.ErrEstablishmentNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", target: "/establishments/7/available-slots?serviceId=3&date=2026-01-05",
			err: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", target: "/establishments/7/available-slots?serviceId=3&date=2026-01-05",
			err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
