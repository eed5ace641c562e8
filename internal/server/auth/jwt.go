// Package auth issues and validates the bearer tokens that bind a request
// to one identity. Tokens are stateless JWTs signed with a server-held
// HMAC secret; expiry is the only invalidation mechanism.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safedrive/safedrive/internal/common"
)

// Claims carries the registered claim set; the token subject is the
// identity's email.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken mints a signed HS256 token for the given subject email.
// Each token carries a random jti so two tokens issued in the same second
// are still distinct.
func GenerateToken(subjectEmail string, secretKey []byte, validityDuration time.Duration) (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subjectEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func parse(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ExtractSubject returns the subject email embedded in the token.
// Malformed, badly signed, or expired tokens fail with common.ErrInvalidToken.
func ExtractSubject(tokenString string, secretKey []byte) (string, error) {
	claims, err := parse(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ValidateToken reports whether the token has an intact signature, a future
// expiry, and exactly (case-sensitively) the expected subject. Any failure
// yields false; there is no partial success.
func ValidateToken(tokenString string, expectedSubject string, secretKey []byte) bool {
	claims, err := parse(tokenString, secretKey)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}
