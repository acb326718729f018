package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "test"}

		err := WriteJSON(w, http.StatusOK, data)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		err = json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "test", response["message"])
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusNoContent, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteOK(w, map[string]string{"result": "success"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	dataMap := response.Data.(map[string]interface{})
	assert.Equal(t, "success", dataMap["result"])
}

func TestWriteAccepted(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteAccepted(w, map[string]int{"accepted": 2})
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	dataMap := response.Data.(map[string]interface{})
	assert.Equal(t, float64(2), dataMap["accepted"])
}

func TestWriteBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	details := map[string]interface{}{"customer_id": "customer_id is required"}

	err := WriteBadRequest(w, "Validation failed", details)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "Validation failed", response.Message)
	assert.Equal(t, "customer_id is required", response.Details["customer_id"])
}

func TestWriteNotFound(t *testing.T) {
	t.Run("with custom message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteNotFound(w, "Route not found")
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "not_found", response.Error)
		assert.Equal(t, "Route not found", response.Message)
	})

	t.Run("with empty message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteNotFound(w, "")
		require.NoError(t, err)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "Resource not found", response.Message)
	})
}

func TestWriteRequestEntityTooLarge(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteRequestEntityTooLarge(w, 1024))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "payload_too_large", response.Error)
	assert.Equal(t, float64(1024), response.Details["limit_bytes"])
}

func TestWriteTooManyRequests(t *testing.T) {
	t.Run("with custom message", func(t *testing.T) {
		w := httptest.NewRecorder()
		details := map[string]interface{}{"limit": 100, "window": "second"}

		err := WriteTooManyRequests(w, "Exceeded rate limit", details)
		require.NoError(t, err)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "rate_limit_exceeded", response.Error)
		assert.Equal(t, "Exceeded rate limit", response.Message)
		assert.Equal(t, float64(100), response.Details["limit"])
	})

	t.Run("with empty message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteTooManyRequests(w, "", nil)
		require.NoError(t, err)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "Rate limit exceeded", response.Message)
	})
}

func TestWriteInternalServerError(t *testing.T) {
	t.Run("with custom message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteInternalServerError(w, "Store unavailable")
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "internal_error", response.Error)
		assert.Equal(t, "Store unavailable", response.Message)
	})

	t.Run("with empty message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteInternalServerError(w, "")
		require.NoError(t, err)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "Internal server error", response.Message)
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name              string
		status            int
		message           string
		expectedErrorType string
	}{
		{
			name:              "bad request",
			status:            http.StatusBadRequest,
			message:           "Invalid input",
			expectedErrorType: "bad_request",
		},
		{
			name:              "not found",
			status:            http.StatusNotFound,
			message:           "Not found",
			expectedErrorType: "not_found",
		},
		{
			name:              "method not allowed",
			status:            http.StatusMethodNotAllowed,
			message:           "Method not allowed",
			expectedErrorType: "method_not_allowed",
		},
		{
			name:              "payload too large",
			status:            http.StatusRequestEntityTooLarge,
			message:           "Too big",
			expectedErrorType: "payload_too_large",
		},
		{
			name:              "rate limit",
			status:            http.StatusTooManyRequests,
			message:           "Too many requests",
			expectedErrorType: "rate_limit_exceeded",
		},
		{
			name:              "unknown status defaults to internal error",
			status:            http.StatusTeapot,
			message:           "I'm a teapot",
			expectedErrorType: "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			err := WriteError(w, tt.status, tt.message, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.status, w.Code)

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

			assert.Equal(t, tt.expectedErrorType, response.Error)
			assert.Equal(t, tt.message, response.Message)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		limit   int64
		want    string
		wantErr string
	}{
		{name: "valid body", body: `{"name":"acme"}`, limit: 1024, want: "acme"},
		{name: "no limit", body: `{"name":"acme"}`, want: "acme"},
		{name: "empty body", body: "", limit: 1024, wantErr: "request body is empty"},
		{name: "malformed", body: `{"name":`, limit: 1024, wantErr: "malformed JSON"},
		{name: "wrong type", body: `{"name":5}`, limit: 1024, wantErr: "malformed JSON"},
		{name: "trailing document", body: `{"name":"a"}{"name":"b"}`, limit: 1024, wantErr: "single JSON document"},
		{name: "over limit", body: `{"name":"` + strings.Repeat("x", 64) + `"}`, limit: 16, wantErr: ErrBodyTooLarge.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var got payload
			err := DecodeJSON(w, r, tt.limit, &got)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}
