package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Name: "John", Email: "john@example.com"}

	tests := []struct {
		name         string
		body         any
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		check        func(t *testing.T, body map[string]any)
	}{
		{
			name: "success",
			body: RegisterRequest{Name: "John", Email: "john@example.com", Password: "secret"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "John", "john@example.com", "secret").
					Return("jwt-token", user, nil)
			},
			expectedCode: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "jwt-token", body["token"])
				data := body["data"].(map[string]any)
				assert.Equal(t, user.UserID.String(), data["_id"])
				assert.NotContains(t, data, "password_hash")
			},
		},
		{
			name: "user already exists",
			body: RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "Alice", "alice@example.com", "secret").
					Return("", nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "User already exists with this email", body["error"])
			},
		},
		{
			name: "validation failed",
			body: RegisterRequest{Email: "bad"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "", "bad", "").
					Return("", nil, &validation.Error{Messages: []string{"name is required", "email must be a valid address"}})
			},
			expectedCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Validation failed", body["error"])
				assert.Equal(t, []any{"name is required", "email must be a valid address"}, body["details"])
			},
		},
		{
			name: "internal server error",
			body: RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "Bob", "bob@example.com", "secret").
					Return("", nil, errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Server Error", body["error"])
			},
		},
		{
			name:         "invalid json",
			body:         "{invalid json}",
			expectedCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Invalid request body", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRegisterer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr, body := serve(NewRegisterHandler(mockSvc), newRequest(t, http.MethodPost, "/auth/register", tt.body, nil, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			tt.check(t, body)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Email: "john@example.com"}

	tests := []struct {
		name          string
		body          any
		mockSetup     func(m *MockLoginer)
		expectedCode  int
		expectedError string
	}{
		{
			name: "success",
			body: LoginRequest{Email: "john@example.com", Password: "secret"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "john@example.com", "secret").Return("jwt-token", user, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "missing password",
			body:          LoginRequest{Email: "john@example.com"},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Please provide an email and password",
		},
		{
			name:          "missing email",
			body:          LoginRequest{Email: "  ", Password: "secret"},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Please provide an email and password",
		},
		{
			name: "invalid credentials",
			body: LoginRequest{Email: "john@example.com", Password: "wrong"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "john@example.com", "wrong").Return("", nil, services.ErrInvalidCredentials)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
		{
			name: "internal error",
			body: LoginRequest{Email: "john@example.com", Password: "secret"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "john@example.com", "secret").Return("", nil, errors.New("db down"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Server Error",
		},
		{
			name:          "invalid json",
			body:          "not json",
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr, body := serve(NewLoginHandler(mockSvc), newRequest(t, http.MethodPost, "/auth/login", tt.body, nil, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				assert.Equal(t, false, body["success"])
				return
			}
			assert.Equal(t, true, body["success"])
			assert.Equal(t, "jwt-token", body["token"])
		})
	}
}

func TestMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockSvc := NewMockProfiler(ctrl)
	h := NewMeHandler(mockSvc)

	t.Run("success", func(t *testing.T) {
		mockSvc.EXPECT().Me(gomock.Any(), userID).Return(&models.UserDB{UserID: userID, Name: "John"}, nil)

		rr, body := serve(h, newRequest(t, http.MethodGet, "/auth/me", nil, &userID, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "John", body["data"].(map[string]any)["name"])
	})

	t.Run("user not found", func(t *testing.T) {
		mockSvc.EXPECT().Me(gomock.Any(), userID).Return(nil, services.ErrUserNotFound)

		rr, body := serve(h, newRequest(t, http.MethodGet, "/auth/me", nil, &userID, nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", body["error"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rr, body := serve(h, newRequest(t, http.MethodGet, "/auth/me", nil, nil, nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Not authorized to access this route", body["error"])
	})
}
