// Package token issues and verifies signed, time-bound identity tokens.
// Tokens are stateless: nothing is stored server-side, and they expire only
// by TTL or secret rotation.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL matches the product's session length.
const DefaultTTL = 24 * time.Hour

// The three failure modes the authenticator must be able to tell apart.
var (
	ErrMalformed = errors.New("token is malformed")
	ErrExpired   = errors.New("token has expired")
	ErrInvalid   = errors.New("token is invalid")
)

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an issuer around a process-wide signing secret. The secret
// is loaded once at startup and must never be logged.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding subjectID to an absolute expiry.
func (i *Issuer) Issue(subjectID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify checks the signature and expiry and returns the subject id. Failures
// are ErrMalformed, ErrExpired, or ErrInvalid; callers must not trust any
// claim beyond the subject id.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpired
	case err != nil:
		return "", ErrInvalid
	}

	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}
