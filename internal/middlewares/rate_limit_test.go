package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	limit := RateLimit{Scope: "auth", Limit: 2, Window: 15 * time.Minute, Message: TooManyAuthRequestsMessage}

	tests := []struct {
		name          string
		count         int64
		hitErr        error
		wantStatus    int
		wantRemaining string
	}{
		{name: "first request", count: 1, wantStatus: http.StatusOK, wantRemaining: "1"},
		{name: "last allowed", count: 2, wantStatus: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", count: 3, wantStatus: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "limiter down fails open", hitErr: errors.New("redis down"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			limiter := NewMockRateLimiter(ctrl)
			limiter.EXPECT().Hit(gomock.Any(), "auth:10.0.0.1", 15*time.Minute).Return(tt.count, tt.hitErr)

			handler := RateLimitMiddleware(limiter, limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:54321"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantRemaining, rr.Header().Get("RateLimit-Remaining"))
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "2", rr.Header().Get("RateLimit-Limit"))
				assert.JSONEq(t, `{"success":false,"error":"`+TooManyAuthRequestsMessage+`"}`, rr.Body.String())
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:8080"
	assert.Equal(t, "192.168.1.7", clientIP(req))

	req.RemoteAddr = "192.168.1.7"
	assert.Equal(t, "192.168.1.7", clientIP(req))

	req.RemoteAddr = "192.168.1.7:8080"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "192.168.1.7", clientIP(req))
}
