package fintrack

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind is the `type` discriminator embedded in every token
type TokenKind string

const (
	// TokenKindAccess marks short-lived tokens carrying scopes
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh marks long-lived tokens used only to mint new pairs
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the payload of both access and refresh tokens. Validity is
// entirely self-contained (claims + signature); refresh tokens additionally
// answer to the user's last_refresh watermark at verification time.
type TokenClaims struct {
	jwt.RegisteredClaims
	TokenType TokenKind `json:"type"`
	Scopes    []string  `json:"scopes,omitempty"`
}

// HasScope reports whether the claim set carries the given scope
func (c *TokenClaims) HasScope(scope Scope) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// UserID parses the subject claim as a uuid
func (c *TokenClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrCredentialsInvalid
	}
	return id, nil
}

// Expires returns the expiry as a time, zero when absent
func (c *TokenClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued returns the issue time, zero when absent
func (c *TokenClaims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
