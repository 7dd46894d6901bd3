package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func signClaims(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestIssuer_DefaultTTL(t *testing.T) {
	issuer := NewIssuer(testSecret, 0)
	assert.Equal(t, DefaultTTL, issuer.ttl)
}

func TestIssuer_VerifyExpired(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)

	expired := signClaims(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-123",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	_, err := issuer.Verify(expired)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssuer_VerifyMalformed(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)

	for _, raw := range []string{"", "not-a-token", "a.b", "%%%.%%%.%%%"} {
		_, err := issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestIssuer_VerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)

	forged := signClaims(t, "some-other-secret", jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := issuer.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssuer_VerifyMissingExpiry(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)

	noExpiry := signClaims(t, testSecret, jwt.RegisteredClaims{Subject: "user-123"})

	_, err := issuer.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssuer_VerifyMissingSubject(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)

	noSubject := signClaims(t, testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := issuer.Verify(noSubject)
	assert.ErrorIs(t, err, ErrInvalid)
}
