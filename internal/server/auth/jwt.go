// Package auth issues and verifies the bearer tokens that guard the to-do
// endpoints. Tokens are HS256-signed JWTs carrying only the user ID; they have
// no expiry and are verified statelessly, so possession of a validly-signed
// token is the sole authorization check.
package auth

import (
	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims includes the standard claims plus the authenticated user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken signs a token embedding userID. No expiry claim is set.
func GenerateToken(userID string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the token signature and returns the embedded
// user ID. Malformed or badly-signed tokens yield an error.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
