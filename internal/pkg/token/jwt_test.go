package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooficina/internal/pkg/token"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := token.NewService("segredo-de-teste", time.Hour)

	tokenString, err := svc.GenerateToken("user-1", "company-1", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "company-1", claims.CompanyID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokenString, err := token.NewService("segredo-a", time.Hour).GenerateToken("user-1", "company-1", "admin")
	require.NoError(t, err)

	_, err = token.NewService("segredo-b", time.Hour).ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := token.NewService("segredo", -time.Minute)

	tokenString, err := svc.GenerateToken("user-1", "company-1", "operator")
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := token.CustomClaims{UserID: "user-1", Role: "admin"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := token.NewService("segredo", time.Hour).ValidateToken("nao.e.jwt")
	assert.Error(t, err)
}
