package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=handlers

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, name, email, password string) (string, *models.UserDB, error)
}

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (string, *models.UserDB, error)
}

// Profiler returns the authenticated user.
type Profiler interface {
	Me(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Display name
	// required: true
	// default: John Doe
	Name string `json:"name"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with a unique email and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.Response{data=models.UserDB} "User registered"
// @Failure 400 {object} handlers.Response "Validation failed / user already exists"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		token, user, err := svc.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrUserAlreadyExists) {
				writeError(w, http.StatusBadRequest, "User already exists with this email")
				return
			}
			writeServiceError(w, err, "failed to register user", "email", req.Email)
			return
		}

		writeJSON(w, http.StatusCreated, Response{Success: true, Token: token, Data: user})
	}
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} handlers.Response{data=models.UserDB} "JWT token returned"
// @Failure 400 {object} handlers.Response "Missing email or password"
// @Failure 401 {object} handlers.Response "Invalid credentials"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /auth/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Please provide an email and password")
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			logger.Log.Errorw("internal server error", "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}

		writeJSON(w, http.StatusOK, Response{Success: true, Token: token, Data: user})
	}
}

// NewMeHandler returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response{data=models.UserDB}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "User not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /auth/me [get]
func NewMeHandler(svc Profiler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			logger.Log.Errorw("failed to load user", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}

		writeData(w, http.StatusOK, user)
	}
}
