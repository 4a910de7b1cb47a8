package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}`))
		var p payload
		require.NoError(t, DecodeJSON(r, &p))
		assert.Equal(t, "Ana", p.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","age":3}`))
		var p payload
		assert.Error(t, DecodeJSON(r, &p))
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var p payload
		assert.Error(t, DecodeJSON(r, &p))
	})
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "слот занят")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "слот занят"}, body)
}

func TestRespondErrorWithReason(t *testing.T) {
	w := httptest.NewRecorder()
	RespondErrorWithReason(w, http.StatusUnprocessableEntity, "нельзя", "blocked")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "blocked", body.Reason)
	assert.Equal(t, http.StatusUnprocessableEntity, body.Code)
}

func TestRespondInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondInternalError(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), msgInternalError)
}
