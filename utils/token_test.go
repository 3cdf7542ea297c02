package authUtils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", 7, "sid-1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	_, err := GenerateToken("", 1, "sid", time.Hour)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 7, "sid-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token, false)
	assert.Error(t, err)
	_, err = ParseToken("other", token, true)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", 7, "sid-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token, false)
	assert.Error(t, err)

	claims, err := ParseToken("secret", token, true)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1, SessionID: "sid"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken("secret", signed, false)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("secret", "not-a-token", true)
	assert.Error(t, err)
}
