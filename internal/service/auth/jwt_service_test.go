package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestJWTService(secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      now,
		clockSkew:     2 * time.Minute,
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := newTestJWTService(testSecret, tokenLifetime, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), userID, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("editor"))
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()
	at := func(ts time.Time) func() time.Time { return func() time.Time { return ts } }

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID)
				valSvc := newTestJWTService(testSecret, tokenLifetime, at(fixedTime.Add(tokenLifetime+time.Hour)))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "within clock skew",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID)
				valSvc := newTestJWTService(testSecret, tokenLifetime, at(fixedTime.Add(tokenLifetime+time.Minute)))
				return valSvc, token
			},
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID)
				return newTestJWTService(wrongSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return newTestJWTService(testSecret, tokenLifetime, at(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong signing method",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{
					Subject:   userID.String(),
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				})
				return newTestJWTService(testSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "subject is not a uuid",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
					Subject:   "alice",
					ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				})
				return newTestJWTService(testSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrMissingSubject,
		},
		{
			name: "not yet valid",
			setupFunc: func() (JWTService, string) {
				token := sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
					Subject:   userID.String(),
					NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				})
				return newTestJWTService(testSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrTokenNotYetValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.(*hmacJWTService).tokenLifetime)
}
