package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateRandomPassword(t *testing.T) {
	a, err := GenerateRandomPassword(TempPasswordLength)
	require.NoError(t, err)
	b, err := GenerateRandomPassword(TempPasswordLength)
	require.NoError(t, err)

	require.Len(t, a, TempPasswordLength)
	require.NotEqual(t, a, b)
	for _, c := range a {
		require.Contains(t, passwordCharset, string(c))
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "secret1"))
	require.False(t, CheckPassword(hash, "secret2"))

	temp, err := NewTempPasswordHash(bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, temp)
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	tok, err := m.GenerateToken("665f1c2b9d1e8a0012345678", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(tok)
	require.NoError(t, err)
	require.Equal(t, "665f1c2b9d1e8a0012345678", claims.UserID)
	require.Equal(t, "admin", claims.Role)

	_, err = NewTokenManager("other", time.Hour).ValidateToken(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenManager("s3cret", -time.Minute).GenerateToken("x", "member")
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}
