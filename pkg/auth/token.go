package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/storefront/pkg/config"
)

// clockSkew tolerates small clock drift between instances.
const clockSkew = 30 * time.Second

var (
	jwtSigningMethod = jwt.SigningMethodHS256

	errNoSecret    = errors.New("session secret is required")
	errNoSessionID = errors.New("session id is required")
)

// MintSessionToken signs an HS256 token whose jti is sessionID. It expires
// with the configured session TTL.
func MintSessionToken(cfg config.SessionConfig, now time.Time, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	switch {
	case cfg.Secret == "":
		return "", errNoSecret
	case cfg.Issuer == "":
		return "", errors.New("session issuer is required")
	case cfg.TTL() <= 0:
		return "", errors.New("session ttl must be positive")
	case sessionID == "":
		return "", errNoSessionID
	}

	now = now.UTC()
	return jwt.NewWithClaims(jwtSigningMethod, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
		},
	}).SignedString([]byte(cfg.Secret))
}

// ParseSessionToken verifies signature, issuer and expiry and returns the
// claims. Only HS256 is accepted.
func ParseSessionToken(cfg config.SessionConfig, tokenString string) (*SessionClaims, error) {
	if cfg.Secret == "" {
		return nil, errNoSecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	)

	claims := &SessionClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.SessionID()) == "" {
		return nil, errNoSessionID
	}
	return claims, nil
}
