// Package auth issues HS256 bearer tokens in the shape EnsureValidToken
// accepts. Production tokens come from the identity provider; these are for
// local development and tests.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

func NewIssuer(secret, issuer, audience string) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: JWT secret key not set")
	}
	return &Issuer{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: audience,
		TTL:      24 * time.Hour,
	}, nil
}

// CreateToken signs a token for subject, the owner id of every set it touches.
func (i *Issuer) CreateToken(subject, nickname string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("auth: subject is required")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.Issuer,
			Audience:  jwt.ClaimStrings{i.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	})

	tokenString, err := token.SignedString(i.Secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// VerifyToken checks signature, issuer, audience and expiry and returns the subject.
func (i *Issuer) VerifyToken(tokenString string) (string, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return i.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.Issuer),
		jwt.WithAudience(i.Audience),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
