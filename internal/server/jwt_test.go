package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/evidence-matcher/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T) *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: testSecret})
}

func TestJWTService_RoundTrip(t *testing.T) {
	service := setupTestJWTService(t)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestJWTService_ValidateToken_InvalidSignature(t *testing.T) {
	token, err := setupTestJWTService(t).GenerateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "a-completely-different-secret-value"})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := setupTestJWTService(t)
	token, err := service.GenerateToken(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_ValidateToken_Leeway(t *testing.T) {
	service := NewJWTService(&config.JWTConfig{Secret: testSecret, Leeway: 5 * time.Minute})
	token, err := service.GenerateToken(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.NoError(t, err)
}

func TestJWTService_ValidateToken_Issuer(t *testing.T) {
	issuing := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "auth.example.com"})
	token, err := issuing.GenerateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = issuing.ValidateToken(token)
	assert.NoError(t, err)

	strict := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "other.example.com"})
	_, err = strict.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	service := setupTestJWTService(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := service.ValidateToken(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestJWTService_ValidateToken_WrongAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID:           uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = setupTestJWTService(t).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_MissingUserID(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = setupTestJWTService(t).ValidateToken(token)
	assert.ErrorContains(t, err, "user_id")
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t)
	userID := uuid.New()
	token, err := service.GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	got, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.GetUserID())

	_, err = service.AsTokenValidator().ValidateToken("junk")
	assert.Error(t, err)
}
