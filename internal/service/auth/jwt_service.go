package auth

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// JWTService verifies bearer tokens issued by the identity provider. Tokens
// are HS256 signed with a shared secret.
type JWTService interface {
	// ValidateToken validates the token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrMissingSubject or
	// ErrInvalidToken when the token cannot be trusted.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateToken signs a token for userID carrying roles. The server never
	// issues tokens; this exists for local development and tests.
	GenerateToken(ctx context.Context, userID uuid.UUID, roles ...string) (string, error)
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the learner the token was issued for, taken from "sub".
	UserID uuid.UUID `json:"sub"`

	// Roles are the authorization roles granted by the identity provider.
	Roles []string `json:"roles,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// HasRole reports whether the claims grant role.
func (c *Claims) HasRole(role string) bool {
	return c != nil && role != "" && slices.Contains(c.Roles, role)
}
