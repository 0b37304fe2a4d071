package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIdentityClaims(claims IdentityClaims, secret string) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Minute))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-access-secret"

	token, err := GenerateAccessToken(secret, "user-1", "sess-1", "helpdesk", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "helpdesk", claims.Role)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret-a", "user-1", "sess-1", "user", time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret-b")
	assert.Error(t, err)
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "sess-1", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret")
	assert.Error(t, err)
}

func TestIdentityTokenValidation(t *testing.T) {
	// Identity tokens must carry the configured issuer and an email.
	mint := func(issuer, email string) string {
		claims := IdentityClaims{
			Email:     email,
			FirstName: "Ana",
			LastName:  "García",
			Groups:    []string{"MEGASYS-HELPDESK"},
		}
		claims.Issuer = issuer
		token, err := signIdentityClaims(claims, "idp-secret")
		require.NoError(t, err)
		return token
	}

	claims, err := ParseIdentityToken(mint("megasys-idp", "ana@megasys.com"), "idp-secret", "megasys-idp")
	require.NoError(t, err)
	assert.Equal(t, "ana@megasys.com", claims.Email)
	assert.Equal(t, []string{"MEGASYS-HELPDESK"}, claims.Groups)

	_, err = ParseIdentityToken(mint("other-issuer", "ana@megasys.com"), "idp-secret", "megasys-idp")
	assert.Error(t, err)

	_, err = ParseIdentityToken(mint("megasys-idp", ""), "idp-secret", "megasys-idp")
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	token, hash, err := GenerateRefreshToken(64)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, HashRefreshToken(token), hash)

	other, _, err := GenerateRefreshToken(64)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)

	ok, err := VerifyPassword("hunter2hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("anything", []byte("not-an-argon2-hash"))
	assert.Error(t, err)
}

func TestVerifyPasswordParsesEncodedForm(t *testing.T) {
	// The salt and hash segments are base64 and must survive parsing as
	// separate fields, whatever characters they contain.
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	malformed := [][]byte{
		[]byte("$argon2i$v=19$t=3,m=65536,p=2$c2FsdA$aGFzaA"),
		[]byte("$argon2id$v=18$t=3,m=65536,p=2$c2FsdA$aGFzaA"),
		[]byte("$argon2id$v=19$t=3,m=65536,p=2$c2FsdA"),
		[]byte("$argon2id$v=19$bogus$c2FsdA$aGFzaA"),
		[]byte(""),
	}
	for _, encoded := range malformed {
		_, err := VerifyPassword("anything", encoded)
		assert.Error(t, err, string(encoded))
	}
}

func TestAuthDataRoundTrip(t *testing.T) {
	blob, err := EncodeAuthData(AuthData{
		User:            map[string]any{"id": "u1", "email": "ana@megasys.com"},
		Token:           "access-token",
		RefreshToken:    "refresh-token",
		ProfilePhotoURL: "https://fotos/ana.jpg",
	})
	require.NoError(t, err)

	decoded, err := DecodeAuthData(blob)
	require.NoError(t, err)
	assert.Equal(t, "access-token", decoded.Token)
	assert.Equal(t, "refresh-token", decoded.RefreshToken)
	assert.Equal(t, "ana@megasys.com", decoded.User["email"])

	_, err = DecodeAuthData("%%%not-base64%%%")
	assert.Error(t, err)
}
