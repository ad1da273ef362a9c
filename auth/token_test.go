package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"messenger/errors"
)

var secret = []byte("unit-test-secret")

func signToken(t *testing.T, key []byte, claims CustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateToken_Valid(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier(secret)

	token := signToken(t, secret, CustomClaims{
		Number: "+33612345678",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	number, err := verifier.ValidateToken(token)
	req.NoError(err)
	req.Equal("+33612345678", number)
}

func TestValidateToken_Expired(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier(secret)

	token := signToken(t, secret, CustomClaims{
		Number: "+33612345678",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := verifier.ValidateToken(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestValidateToken_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier(secret)

	token := signToken(t, []byte("some-other-secret"), CustomClaims{
		Number: "+33612345678",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.ValidateToken(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestValidateToken_Missing_Number_Claim(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier(secret)

	token := signToken(t, secret, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.ValidateToken(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier(secret)

	_, err := verifier.ValidateToken("not-a-jwt")
	req.ErrorIs(err, errors.ErrInvalidToken)

	_, err = verifier.ValidateToken("")
	req.ErrorIs(err, errors.ErrInvalidToken)
}
