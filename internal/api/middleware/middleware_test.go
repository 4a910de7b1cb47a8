package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var gotID int64
	var gotOK bool
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "42", wantStatus: http.StatusNoContent},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not a number", header: "abc", wantStatus: http.StatusUnauthorized},
		{name: "negative", header: "-1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotOK = 0, false
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(UserIDHeader, tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.True(t, gotOK)
				assert.Equal(t, int64(42), gotID)
			} else {
				assert.False(t, gotOK)
			}
		})
	}
}

type observation struct {
	method string
	route  string
	status int
}

type fakeHTTPMetrics struct {
	observed []observation
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.observed = append(f.observed, observation{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/establishments/{establishmentId}/appointments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/establishments/7/appointments", nil))

	require.Len(t, m.observed, 1)
	assert.Equal(t, observation{
		method: http.MethodPost,
		route:  "/establishments/{establishmentId}/appointments",
		status: http.StatusCreated,
	}, m.observed[0])
}
