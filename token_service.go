package fintrack

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const signingAlgorithm = "HS256"

func init() {
	// iat needs sub-second resolution so a refresh token consumed within
	// the same wall-clock second as its replacement still sorts before the
	// advanced watermark.
	jwt.TimePrecision = time.Millisecond
}

// TokenService issues and validates the HMAC-signed access/refresh token
// pair. It has no persisted state; the refresh watermark lives on the user.
type TokenService struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     Logger
	now        func() time.Time
}

// TokenServiceOption customizes a TokenService
type TokenServiceOption func(*TokenService)

// WithTokenClock injects a custom clock (useful for tests)
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the service logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, accessTTL, refreshTTL time.Duration, opts ...TokenServiceOption) *TokenService {
	ts := &TokenService{
		signingKey: signingKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// IssueAccessToken mints a short-lived access token carrying the granted
// scopes. The issue time is truncated to milliseconds so it compares
// cleanly against the persisted watermark.
func (ts *TokenService) IssueAccessToken(subject string, scopes []Scope) (string, error) {
	return ts.sign(subject, TokenKindAccess, ts.accessTTL, scopes)
}

// IssueRefreshToken mints a long-lived refresh token
func (ts *TokenService) IssueRefreshToken(subject string) (string, error) {
	return ts.sign(subject, TokenKindRefresh, ts.refreshTTL, nil)
}

func (ts *TokenService) sign(subject string, kind TokenKind, ttl time.Duration, scopes []Scope) (string, error) {
	now := ts.now().UTC().Truncate(time.Millisecond)

	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
		Scopes:    scopes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Validate parses and verifies a token string of either kind. Expired tokens
// fail with ErrTokenExpired; anything malformed, unsigned, or signed with a
// different algorithm fails with ErrCredentialsInvalid.
func (ts *TokenService) Validate(raw string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	},
		jwt.WithValidMethods([]string{signingAlgorithm}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return ts.now() }),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		ts.logger.Debug("token validation failed", "error", err)
		return nil, ErrCredentialsInvalid
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrCredentialsInvalid
	}

	return claims, nil
}

// ValidateAccess validates a token and requires the access discriminator
func (ts *TokenService) ValidateAccess(raw string) (*TokenClaims, error) {
	return ts.validateKind(raw, TokenKindAccess)
}

// ValidateRefresh validates a token and requires the refresh discriminator
func (ts *TokenService) ValidateRefresh(raw string) (*TokenClaims, error) {
	return ts.validateKind(raw, TokenKindRefresh)
}

func (ts *TokenService) validateKind(raw string, kind TokenKind) (*TokenClaims, error) {
	claims, err := ts.Validate(raw)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != kind {
		ts.logger.Debug("token kind mismatch", "want", kind, "got", claims.TokenType)
		return nil, ErrCredentialsInvalid
	}

	return claims, nil
}
