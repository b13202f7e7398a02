// Package service issues and verifies the anti-forgery tokens protecting the
// registration form submission.
//
// Tokens are stateless: an HMAC-signed JWT carrying the session id and an
// expiry. Nothing is stored server-side, so verification is idempotent and a
// client may retry submission with the same token until it expires.
package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "comptepro/pkg/domain-errors"
)

// Claims are the JWT claims embedded in a CSRF token.
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Service handles CSRF token creation and validation.
type Service struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// New constructs the token service. The signing secret comes from
// configuration; an absent secret is an operational fault, reported before
// the server starts taking traffic.
func New(signingKey string, tokenTTL time.Duration) (*Service, error) {
	if signingKey == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, "missing CSRF signing secret")
	}
	if tokenTTL <= 0 {
		tokenTTL = 45 * time.Minute
	}
	return &Service{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}, nil
}

// IssueSession produces a fresh session identifier.
func (s *Service) IssueSession() string {
	return uuid.NewString()
}

// GenerateToken produces a signed token bound to sessionID.
func (s *Service) GenerateToken(sessionID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// VerifyToken reports whether token is validly signed, unexpired, and bound
// to sessionID. All failure modes return false indistinguishably: an expired
// token must not be tellable apart from a tampered one by the caller.
func (s *Service) VerifyToken(token, sessionID string) bool {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(claims.SessionID), []byte(sessionID)) == 1
}

// TokenTTL exposes the configured validity window.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}
