package get_working_hours

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

	"github.com/orkestre/agenda-service/internal/domain"
	"github.com/orkestre/agenda-service/internal/service/establishments"
	"github.com/orkestre/agenda-service/internal/service/establishments/models"
	"github.com/orkestre/agenda-service/pkg/logger"
)

type fakeService struct {
	resp *models.WorkingHoursResponse
	err  error
}

func (f *fakeService) GetWorkingHours(_ context.Context, _ int64) (*models.WorkingHoursResponse, error) {
	return f.resp, f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/establishments/{establishmentId}/working-hours", NewHandler(svc, logger.NewNop()).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{resp: &models.WorkingHoursResponse{
		EstablishmentID: 7,
		Timezone:        "America/Sao_Paulo",
		WorkingHours:    domain.NewWorkingHoursConfig(),
	}}

	w := serve(svc, "/establishments/7/working-hours")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["configured"])

	hours, ok := body["workingHours"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(30), hours["appointment_interval_minutes"])
	monday, ok := hours["monday"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, monday["is_active"])
	assert.Nil(t, monday["start_time"])
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/establishments/x/working-hours").Code)
	assert.Equal(t, http.StatusNotFound,
		serve(&fakeService{err: establishments.ErrEstablishmentNotFound}, "/establishments/7/working-hours").Code)
	assert.Equal(t, http.StatusInternalServerError,
		serve(&fakeService{err: errors.New("boom")}, "/establishments/7/working-hours").Code)
}
