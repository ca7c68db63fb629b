// Package auth implements the signed-token codec. Tokens are HS256 JWTs
// carrying the user id and a purpose tag; the payload is signed, not
// encrypted. The codec has no side effects — revocation lives in the
// account service's token list, not here.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo-api/internal/domain"
)

// Claims extends the registered JWT claims with the user id and the token
// purpose tag.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	Purpose string `json:"purpose"`
}

// Codec issues and verifies signed tokens with a single shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a codec signing with secret. A ttl of zero issues tokens
// without an expiry claim.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// Issue produces a signed token encoding userID and purpose.
func (c *Codec) Issue(userID, purpose string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		UserID:  userID,
		Purpose: purpose,
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature (and expiry, when present) and returns the
// embedded user id and purpose. Every failure mode collapses into
// domain.ErrInvalidToken so callers cannot distinguish why a token was bad.
func (c *Codec) Verify(tokenString string) (userID, purpose string, err error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", domain.ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", "", domain.ErrInvalidToken
	}
	return claims.UserID, claims.Purpose, nil
}
