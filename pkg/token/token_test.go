package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	signed, err := GenerateJWT(42, secret, 15)
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signed, err := GenerateJWT(42, secret, 15)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "other-secret")
	assert.EqualError(t, err, "token signature is invalid")
}

func TestValidateRejectsExpired(t *testing.T) {
	signed, err := GenerateJWT(42, secret, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, secret)
	assert.EqualError(t, err, "token has expired")
}

func TestValidateRequiresUserID(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ValidateJWT(signed, secret)
	assert.EqualError(t, err, "user_id claim is missing or zero")
}

func TestValidateRequiresExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ValidateJWT(signed, secret)
	assert.Error(t, err)
}

func TestValidateEmptyInputs(t *testing.T) {
	_, err := ValidateJWT("", secret)
	assert.EqualError(t, err, "token string is empty")
	_, err = ValidateJWT("abc", "")
	assert.EqualError(t, err, "jwt secret key is empty")
}
