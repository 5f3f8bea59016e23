package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging_RecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/ABC123", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-1", rr.Header().Get(RequestIDHeader))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "/api/v1/rooms/ABC123", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, float64(len("missing")), entry["size"])
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
}

func TestRecovery_CallsPanicHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var recovered any
	handler := Recovery(logger, func(w http.ResponseWriter, _ *http.Request, err any) {
		recovered = err
		w.WriteHeader(http.StatusTeapot)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/rooms", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "boom", recovered)
	assert.Contains(t, buf.String(), "panic recovered")
}
