package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed envelope handed to clients. The JWT ID carries
// the session identifier; everything else lives server side.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session identifier carried in the token.
func (c *SessionClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
