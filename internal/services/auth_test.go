package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT)
	userID := uuid.New()

	tests := []struct {
		name         string
		email        string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantErr      error
		wantToken    string
	}{
		{
			name:      "successful registration",
			email:     "alice@example.com",
			wantToken: "token123",
		},
		{
			name:         "user already exists",
			email:        "bob@example.com",
			existingUser: &models.UserDB{UserID: uuid.New()},
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:      "reader error",
			email:     "eve@example.com",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "concurrent registration hits unique index",
			email:     "carol@example.com",
			writerErr: &pgconn.PgError{Code: "23505"},
			wantErr:   services.ErrUserAlreadyExists,
		},
		{
			name:      "writer error",
			email:     "dan@example.com",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByEmail(gomock.Any(), tt.email).
				Return(tt.existingUser, tt.readerErr)

			if tt.existingUser == nil && tt.readerErr == nil {
				saved := &models.UserDB{UserID: userID, Name: "Alice", Email: tt.email}
				if tt.writerErr != nil {
					saved = nil
				}
				mockWriter.EXPECT().
					Save(gomock.Any(), "Alice", tt.email, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _, hash string) (*models.UserDB, error) {
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pass123")))
						return saved, tt.writerErr
					})
				if tt.writerErr == nil {
					mockJWT.EXPECT().Generate(gomock.Any(), userID).Return(tt.wantToken, nil)
				}
			}

			token, user, err := svc.Register(context.Background(), " Alice ", tt.email, "pass123")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, userID, user.UserID)
		})
	}
}

func TestAuthService_Register_InvalidFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := services.NewAuthService(services.NewMockUserReader(ctrl), services.NewMockUserWriter(ctrl), services.NewMockJWTGenerator(ctrl))

	_, _, err := svc.Register(context.Background(), "", "not-an-email", "123")

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		validation.ErrNameRequired.Error(),
		validation.ErrEmailInvalid.Error(),
		validation.ErrPasswordTooShort.Error(),
	}, verr.Messages)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT)

	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID := uuid.New()

	tests := []struct {
		name      string
		email     string
		user      *models.UserDB
		readerErr error
		jwtErr    error
		wantErr   error
		expectJWT string
		loginPass string
	}{
		{
			name:      "successful login",
			email:     "alice@example.com",
			user:      &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			expectJWT: "token123",
			loginPass: password,
		},
		{
			name:      "unknown email",
			email:     "bob@example.com",
			wantErr:   services.ErrInvalidCredentials,
			loginPass: password,
		},
		{
			name:      "invalid password",
			email:     "carol@example.com",
			user:      &models.UserDB{UserID: uuid.New(), PasswordHash: string(hashed)},
			wantErr:   services.ErrInvalidCredentials,
			loginPass: "wrongpass",
		},
		{
			name:      "reader error",
			email:     "eve@example.com",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
			loginPass: password,
		},
		{
			name:      "JWT generation error",
			email:     "dan@example.com",
			user:      &models.UserDB{UserID: userID, PasswordHash: string(hashed)},
			jwtErr:    errors.New("jwt error"),
			wantErr:   errors.New("jwt error"),
			loginPass: password,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByEmail(gomock.Any(), tt.email).
				Return(tt.user, tt.readerErr)

			if tt.user != nil && tt.readerErr == nil && tt.loginPass == password {
				mockJWT.EXPECT().
					Generate(gomock.Any(), tt.user.UserID).
					Return(tt.expectJWT, tt.jwtErr)
			}

			token, user, err := svc.Login(context.Background(), " "+tt.email, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectJWT, token)
				assert.Equal(t, tt.user, user)
			}
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	svc := services.NewAuthService(mockReader, nil, nil)

	userID := uuid.New()
	mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(&models.UserDB{UserID: userID, Name: "Alice"}, nil)

	user, err := svc.Me(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(nil, nil)
	_, err = svc.Me(context.Background(), userID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
