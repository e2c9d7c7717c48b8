package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/andrewpaige1/flashgen-api/config"
	"github.com/andrewpaige1/flashgen-api/utils"
)

// CustomClaims carries the provider claims we read besides the registered ones.
type CustomClaims struct {
	Nickname string `json:"nickname"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken validates bearer tokens against the configured issuer and
// audience. Requests without a token pass through unauthenticated; requests
// with a bad token are rejected with 401.
//
// With cfg.JWKS set the issuer's published RS256 keys are used, otherwise
// tokens must be HS256-signed with cfg.JWTSecret.
func EnsureValidToken(cfg config.AuthConfig) (func(next http.Handler) http.Handler, error) {
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, fmt.Errorf("auth.issuer and auth.audience are required")
	}

	var (
		keyFunc   func(context.Context) (interface{}, error)
		algorithm validator.SignatureAlgorithm
	)
	if cfg.JWKS {
		issuerURL, err := url.Parse(cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
		}
		provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
		keyFunc = provider.KeyFunc
		algorithm = validator.RS256
	} else {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("auth.jwt_secret is required unless auth.jwks is enabled")
		}
		secret := []byte(cfg.JWTSecret)
		keyFunc = func(ctx context.Context) (interface{}, error) {
			return secret, nil
		}
		algorithm = validator.HS256
	}

	jwtValidator, err := validator.New(
		keyFunc,
		algorithm,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("EnsureValidToken: encountered error while validating JWT: %v", err)
		utils.WriteError(w, http.StatusUnauthorized, "Failed to validate JWT.")
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(true),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}
