// Package auth covers the two credentials this service deals with: the
// static API key callers must present, and signed share tokens that grant
// read access to a single split.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid share token")
	ErrMissingToken = errors.New("authorization required")
)

// ShareTokens signs and validates share-link tokens. A token carries only the
// split fingerprint, no timestamps, so the same split always yields the same
// token and share links stay deterministic and cacheable.
type ShareTokens struct {
	secretKey []byte
}

// ShareClaims is the JWT payload for a share token.
type ShareClaims struct {
	SplitID string `json:"split_id"`
	jwt.RegisteredClaims
}

// NewShareTokens creates a token manager with the given signing secret.
// The secret should be a strong random string (e.g., 32 bytes).
func NewShareTokens(secretKey string) *ShareTokens {
	return &ShareTokens{secretKey: []byte(secretKey)}
}

// Generate creates the share token for a split fingerprint.
func (m *ShareTokens) Generate(splitID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ShareClaims{SplitID: splitID})
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, nil
}

// Validate checks a share token and returns the split fingerprint it grants
// access to.
func (m *ShareTokens) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ShareClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*ShareClaims)
	if !ok || claims.SplitID == "" {
		return "", ErrInvalidToken
	}
	return claims.SplitID, nil
}

// KeyMatches compares a presented API key against the configured one in
// constant time.
func KeyMatches(presented, configured string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}
