// Package auth issues and verifies session tokens: HS256-signed JWTs that
// carry the subject's user id, issue and expiry times and an authenticity flag.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the standard registered claims plus the user id and the authenticity flag.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userID"`
	Check  bool   `json:"check"`
}

// Issuer signs and verifies session tokens with one process-wide secret.
// It is immutable after construction and safe for concurrent use.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewIssuer fails with common.ErrMissingSecret when secret is empty. A
// non-positive validity falls back to common.DefaultTokenValidity.
func NewIssuer(secret string, validity time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, common.ErrMissingSecret
	}
	if validity <= 0 {
		validity = common.DefaultTokenValidity
	}
	return &Issuer{secret: []byte(secret), validity: validity, now: time.Now}, nil
}

// Validity is the lifetime given to every issued token.
func (i *Issuer) Validity() time.Duration {
	return i.validity
}

// Issue returns a signed token bound to userID.
func (i *Issuer) Issue(userID string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID: userID,
		Check:  true,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// Verify returns the user id carried by tokenString. Failures are one of
// common.ErrTokenExpired, common.ErrTokenSignatureInvalid or
// common.ErrTokenMalformed, all of which wrap common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", classify(err)
	}

	if !token.Valid || !claims.Check || claims.UserID == "" || claims.Subject != claims.UserID {
		return "", common.ErrTokenMalformed
	}

	return claims.UserID, nil
}

func (i *Issuer) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
	}
	return i.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrTokenMalformed
	}
}
