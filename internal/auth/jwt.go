package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNotABuyer    = errors.New("token does not identify a buyer")
)

// Buyer is the marketplace user a token was issued to. Accounts live with the
// external identity provider; the cart service only needs the id.
type Buyer struct {
	ID    string
	Email string
}

// buyerClaims keeps the buyer id in the standard subject claim.
type buyerClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 buyer tokens for a single issuer.
type TokenIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		key:    []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// Issue signs a token for b and returns it with its expiry.
func (ti *TokenIssuer) Issue(b Buyer) (string, time.Time, error) {
	if b.ID == "" {
		return "", time.Time{}, ErrNotABuyer
	}

	now := time.Now()
	expiresAt := now.Add(ti.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, buyerClaims{
		Email: b.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   b.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(ti.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign buyer token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, issuer and expiry of tokenString and returns
// the buyer it names.
func (ti *TokenIssuer) Verify(tokenString string) (Buyer, error) {
	var claims buyerClaims
	_, err := ti.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return ti.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Buyer{}, ErrExpiredToken
	case err != nil:
		return Buyer{}, ErrInvalidToken
	case claims.Subject == "":
		return Buyer{}, ErrNotABuyer
	}
	return Buyer{ID: claims.Subject, Email: claims.Email}, nil
}

// TTL is how long issued tokens stay valid.
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}
