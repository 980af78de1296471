package service

import (
	"testing"
	"time"

	"github.com/Payphone-Digital/addressbook/config"
	"github.com/Payphone-Digital/addressbook/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:         "test-secret-key",
		Issuer:         "addressbook",
		Audience:       "addressbook-clients",
		ExpirationTime: time.Hour,
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	token, err := svc.GenerateToken(&model.User{ID: 9, Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "Jane", claims.Name)
}

func TestJWTService_ClaimsAndExpiry(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	issued := time.Unix(1700000000, 0)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(&model.User{ID: 1, Email: "a@b.com"})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	mc := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "HS256", parsed.Method.Alg())
	assert.Equal(t, float64(issued.Add(time.Hour).Unix()), mc["exp"])
	assert.Equal(t, "addressbook", mc["iss"])

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	token, err := svc.GenerateToken(&model.User{ID: 1, Email: "a@b.com"})
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "another-secret"
	_, err = NewJWTService(other).ValidateToken(token)
	assert.Error(t, err, "wrong secret")

	other = testJWTConfig()
	other.Audience = "someone-else"
	_, err = NewJWTService(other).ValidateToken(token)
	assert.Error(t, err, "wrong audience")

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "a@b.com", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.Error(t, err, "alg none")
}
