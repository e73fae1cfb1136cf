package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_OwnerTokens(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	issuer := New(WithSecretKey("owner-secret"), WithExpiration(time.Hour))

	signed := func(t *testing.T, j *JWT, id uuid.UUID) string {
		t.Helper()
		token, err := j.Generate(ctx, id)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name      string
		token     func(t *testing.T) string
		wantOwner uuid.UUID
		wantErrIs error
		wantErr   bool
	}{
		{
			name:      "session resolves to its owner",
			token:     func(t *testing.T) string { return signed(t, issuer, owner) },
			wantOwner: owner,
		},
		{
			name: "expired session",
			token: func(t *testing.T) string {
				return signed(t, New(WithSecretKey("owner-secret"), WithExpiration(-time.Minute)), owner)
			},
			wantErrIs: jwtlib.ErrTokenExpired,
		},
		{
			name: "session signed with another secret",
			token: func(t *testing.T) string {
				return signed(t, New(WithSecretKey("rotated-secret")), owner)
			},
			wantErrIs: jwtlib.ErrTokenSignatureInvalid,
		},
		{
			name: "unsigned session",
			token: func(t *testing.T) string {
				token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: owner}).
					SignedString(jwtlib.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return token
			},
			wantErr: true,
		},
		{
			name:      "session without an owner",
			token:     func(t *testing.T) string { return signed(t, issuer, uuid.Nil) },
			wantErrIs: ErrInvalidSubject,
		},
		{
			name:    "garbage",
			token:   func(t *testing.T) string { return "not.a.token" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.GetClaims(ctx, tt.token(t))

			switch {
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Nil(t, claims)
			case tt.wantErr:
				assert.Error(t, err)
				assert.Nil(t, claims)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantOwner, claims.UserID)
			}
		})
	}
}

func TestJWT_ValidateAcceptsOwnerlessSignature(t *testing.T) {
	j := New(WithSecretKey("owner-secret"))
	ctx := context.Background()

	token, err := j.Generate(ctx, uuid.Nil)
	require.NoError(t, err)

	// Validate checks signature and expiry only; owner checks live in GetClaims.
	assert.NoError(t, j.Validate(ctx, token))
}

func TestJWT_SessionLifetime(t *testing.T) {
	ctx := context.Background()

	for name, tc := range map[string]struct {
		opts []Opt
		want time.Duration
	}{
		"one day by default": {opts: []Opt{WithSecretKey("s")}, want: DefaultExpiration},
		"configured":         {opts: []Opt{WithSecretKey("s"), WithExpiration(2 * time.Hour)}, want: 2 * time.Hour},
	} {
		t.Run(name, func(t *testing.T) {
			j := New(tc.opts...)
			token, err := j.Generate(ctx, uuid.New())
			require.NoError(t, err)

			claims, err := j.GetClaims(ctx, token)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(tc.want), claims.ExpiresAt.Time, time.Minute)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Minute)
		})
	}
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New()
	ctx := context.Background()

	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "bearer session", header: "Bearer owner-token", wantToken: "owner-token"},
		{name: "scheme is case-insensitive", header: "bearer owner-token", wantToken: "owner-token"},
		{name: "anonymous request", wantErr: ErrMissingHeader},
		{name: "scheme without token", header: "Bearer", wantErr: ErrInvalidHeader},
		{name: "basic credentials", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidHeader},
		{name: "extra parts", header: "Bearer a b", wantErr: ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/api/v1/transactions", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
