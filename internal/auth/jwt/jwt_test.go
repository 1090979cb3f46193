package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(Config{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(Config{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	tok, issued, err := s.GenerateToken(42, "alice", "agent", 7)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.SessionID())

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, uint(7), claims.OrgID)
	assert.Equal(t, issued.SessionID(), claims.SessionID())
	assert.Equal(t, time.Hour, s.Duration())
}

func TestJWTService_SessionIDsDiffer(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	_, a, err := s.GenerateToken(1, "bob", "client", 1)
	require.NoError(t, err)
	_, b, err := s.GenerateToken(1, "bob", "client", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestJWTService_ExpiredAndInvalid(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Minute})
	require.NoError(t, err)

	issuedAt := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issuedAt }
	tok, _, err := s.GenerateToken(1, "bob", "client", 1)
	require.NoError(t, err)

	s.now = time.Now
	claims, err := s.ValidateToken(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)

	claims, err = s.ValidateToken("not-a-token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	a, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	b, err := NewService(Config{SecretKey: testSecret + "x", Duration: time.Hour})
	require.NoError(t, err)

	tok, _, err := a.GenerateToken(1, "bob", "client", 1)
	require.NoError(t, err)
	_, err = b.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
