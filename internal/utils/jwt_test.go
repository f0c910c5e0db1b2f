package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, key *rsa.PrivateKey, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestParseJWT(t *testing.T) {
	priv, pub := newKeyPair(t)
	key, err := ParsePublicKey(pub)
	require.NoError(t, err)

	t.Run("subject claim", func(t *testing.T) {
		token := sign(t, priv, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		claims, err := ParseJWT(token, key)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Owner())
	})

	t.Run("user_id wins over subject", func(t *testing.T) {
		token := sign(t, priv, Claims{UserID: "u2", RegisteredClaims: jwt.RegisteredClaims{Subject: "other"}})
		claims, err := ParseJWT(token, key)
		require.NoError(t, err)
		assert.Equal(t, "u2", claims.Owner())
	})

	t.Run("expired", func(t *testing.T) {
		token := sign(t, priv, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}})
		_, err := ParseJWT(token, key)
		assert.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, _ := newKeyPair(t)
		token := sign(t, other, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
		_, err := ParseJWT(token, key)
		assert.Error(t, err)
	})

	t.Run("hmac rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ParseJWT(token, key)
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		token := sign(t, priv, Claims{})
		_, err := ParseJWT(token, key)
		assert.Error(t, err)
	})
}

func TestParsePublicKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePublicKey("not a key")
	assert.Error(t, err)
}
