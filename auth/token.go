// Package auth implements the identity and role gates sitting in front
// of the domain services. Token issuance and refresh live in the
// external identity system; this package only verifies tokens already
// issued and resolves the caller's role before admin-only operations.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"messenger/errors"
)

// CustomClaims carries the verified caller identity. Number is the phone
// number used as the presence key throughout the system.
type CustomClaims struct {
	Number string `json:"number"`
	jwt.RegisteredClaims
}

// Verifier validates access tokens with the shared HMAC secret of the
// identity system.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) Verifier {
	return Verifier{secret: secret}
}

// ValidateToken parses and validates the signature and expiration of a
// token string and returns the verified phone number. Any parse or
// signature failure collapses into ErrInvalidToken: the caller gets no
// hint about which check failed.
func (v Verifier) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Number == "" {
		return "", errors.ErrInvalidToken
	}
	return claims.Number, nil
}
