// Package auth verifies caller identity and centralizes authorization rules.
//
// Token issuance lives in the identity service; this service only validates
// bearer tokens and reads the subject and role claims out of them.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller as seen by the domain layer.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// JWTManager validates HMAC-signed access tokens.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager creates a JWTManager for the given shared secret.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}
}

// VerifyAccessToken parses and validates a bearer token and returns the actor
// it identifies.
func (m *JWTManager) VerifyAccessToken(tokenString string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return Actor{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid subject claim: %w", err)
	}
	if !claims.Role.IsValid() {
		return Actor{}, fmt.Errorf("invalid role claim: %q", claims.Role)
	}

	return Actor{ID: userID, Role: claims.Role}, nil
}

// GenerateAccessToken issues a token for the given actor. The identity
// service is the production issuer; this exists for tests and local tooling.
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
