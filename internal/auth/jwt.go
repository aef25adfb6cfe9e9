// Package auth verifies the HS256 access tokens issued by the platform's
// identity service. This service never issues tokens itself.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
)

// JWTManager validates JWT access tokens against a shared HS256 secret.
type JWTManager struct {
	secret []byte
	issuer string
}

// NewJWTManager creates a token validator.
// The secret must match the one the identity service signs with.
func NewJWTManager(secret, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// ValidateToken parses and verifies an access token and returns the user
// ID carried in the subject claim. Any failure, from a bad signature to
// an expired or malformed token, maps to ErrUnauthorized so callers can
// respond uniformly without leaking the reason.
func (m *JWTManager) ValidateToken(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("empty token: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	if m.issuer != "" && claims.Issuer != m.issuer {
		return uuid.Nil, fmt.Errorf("unexpected issuer %q: %w", claims.Issuer, domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject is not a user id: %w", domain.ErrUnauthorized)
	}

	return userID, nil
}
