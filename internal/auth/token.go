// Package auth verifies bearer credentials and hashes secrets. It resolves
// tokens to subject identities only; looking the subject up is the caller's
// business.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jacentio/lattice/store"
)

// ErrInvalidToken is returned for tokens that are malformed, expired,
// wrongly signed, or carry an unparsable subject.
var ErrInvalidToken = errors.New("auth: invalid token")

// Tokens issues and verifies HMAC-signed bearer tokens whose subject is a
// document identity.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token codec. Panics on an empty secret: that is a
// startup misconfiguration.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if secret == "" {
		panic("auth: token secret must not be empty")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject, expiring after the configured
// lifetime.
func (t *Tokens) Issue(subject store.ID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject.Hex(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify decodes a token and returns its subject identity, or
// ErrInvalidToken.
func (t *Tokens) Verify(token string) (store.ID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return store.NilID, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return store.NilID, ErrInvalidToken
	}
	subject, err := store.ParseID(claims.Subject)
	if err != nil {
		return store.NilID, ErrInvalidToken
	}
	return subject, nil
}
