package utils

import (
	"crypto/rsa" // RSA public key type
	"errors"     // Error values

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims issued by the auth service
type Claims struct {
	UserID               string `json:"user_id,omitempty"` // Custom claim for user ID
	jwt.RegisteredClaims        // Standard JWT claims
}

// Owner returns the user the token speaks for, preferring user_id over sub
func (c *Claims) Owner() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// ParsePublicKey decodes a PEM encoded RSA public key
func ParsePublicKey(pemData string) (*rsa.PublicKey, error) {
	return jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
}

// ParseJWT parses and validates an RS256 token string
func ParseJWT(tokenStr string, key *rsa.PublicKey) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return key, nil // Return the public key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.Owner() == "" {
			return nil, errors.New("token has no subject") // Nothing to scope requests by
		}
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
