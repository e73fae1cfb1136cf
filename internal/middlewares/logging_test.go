package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
)

// observeLogs swaps the global logger for an in-memory one until the test ends.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	original := logger.Log
	logger.Log = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Log = original })
	return logs
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		handlerStatus int
		handlerBody   string
		expectedLevel zapcore.Level
		expectedMsg   string
	}{
		{
			name:          "OK response",
			handlerStatus: http.StatusOK,
			handlerBody:   `{"success":true}`,
			expectedLevel: zapcore.InfoLevel,
			expectedMsg:   "request served",
		},
		{
			name:          "Not found",
			handlerStatus: http.StatusNotFound,
			handlerBody:   `{"success":false}`,
			expectedLevel: zapcore.WarnLevel,
			expectedMsg:   "request rejected",
		},
		{
			name:          "Internal server error",
			handlerStatus: http.StatusInternalServerError,
			handlerBody:   `{"success":false,"error":"Server Error"}`,
			expectedLevel: zapcore.ErrorLevel,
			expectedMsg:   "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)

			var seenID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = GetRequestID(r.Context())
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte(tt.handlerBody))
			})

			rr := httptest.NewRecorder()
			LoggingMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))

			assert.Equal(t, tt.handlerStatus, rr.Code)
			assert.Equal(t, tt.handlerBody, rr.Body.String())

			reqID := rr.Header().Get(RequestIDHeader)
			_, err := uuid.Parse(reqID)
			assert.NoError(t, err)
			assert.Equal(t, reqID, seenID)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expectedLevel, entries[0].Level)
			assert.Equal(t, tt.expectedMsg, entries[0].Message)

			fields := entries[0].ContextMap()
			assert.Equal(t, reqID, fields["request_id"])
			assert.Equal(t, int64(tt.handlerStatus), fields["status"])
			assert.Equal(t, int64(len(tt.handlerBody)), fields["response_size"])
			assert.Equal(t, "/api/v1/transactions", fields["uri"])
		})
	}
}

func TestLoggingMiddleware_KeepsClientRequestID(t *testing.T) {
	observeLogs(t)
	clientID := uuid.New().String()

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, clientID)
	rr := httptest.NewRecorder()
	LoggingMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, clientID, seenID)
	assert.Equal(t, clientID, rr.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_ReplacesMalformedRequestID(t *testing.T) {
	observeLogs(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rr := httptest.NewRecorder()
	LoggingMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

	assert.NotEqual(t, "<script>", rr.Header().Get(RequestIDHeader))
	_, err := uuid.Parse(rr.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(t.Context()))
}
