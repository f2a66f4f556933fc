package fintrack

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
)

// TokenPair is the result of a successful login, registration, or refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Auther authenticates users and manages their token lifecycle. Every pair it
// issues advances the owner's last_refresh watermark first, which retires all
// previously issued refresh tokens.
type Auther struct {
	repo   RepositoryManager
	tokens *TokenService
	logger Logger
	now    func() time.Time
}

// AutherOption customizes an Auther
type AutherOption func(*Auther)

// WithAutherClock injects a custom clock (useful for tests)
func WithAutherClock(clock func() time.Time) AutherOption {
	return func(a *Auther) {
		if clock != nil {
			a.now = clock
		}
	}
}

// WithAutherLogger overrides the service logger
func WithAutherLogger(logger Logger) AutherOption {
	return func(a *Auther) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAuther creates a new Auther instance
func NewAuther(repo RepositoryManager, tokens *TokenService, opts ...AutherOption) *Auther {
	a := &Auther{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// Authenticate verifies a username/password pair. Any failure, including an
// unknown username, surfaces as the same ErrAuthenticationFailed.
func (a *Auther) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := a.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) || isDataError(err) {
			a.logger.Debug("authenticate: user lookup failed", "username", username)
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// Register creates a new account and logs it in. A taken username fails with
// ErrUsernameTaken.
func (a *Auther) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.Users().Register(ctx, &User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	a.logger.Info("registered user", "username", username, "id", user.ID)

	return a.IssueTokenPair(ctx, user, nil)
}

// Login authenticates and issues a fresh token pair. The granted scopes are
// the intersection of the requested scopes and the user's entitlement; asking
// for a scope you do not hold silently narrows the grant.
func (a *Auther) Login(ctx context.Context, username, password string, scopes []Scope) (*TokenPair, error) {
	user, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return a.IssueTokenPair(ctx, user, scopes)
}

// IssueTokenPair advances the watermark and mints a new access/refresh pair.
// The watermark moves before the tokens are signed so the new refresh token's
// issue time is never behind it.
func (a *Auther) IssueTokenPair(ctx context.Context, user *User, requested []Scope) (*TokenPair, error) {
	scopes := grantScopes(user, requested)

	at := a.now().UTC().Truncate(time.Millisecond)
	if err := a.repo.Users().TouchLastRefresh(ctx, user.ID, at); err != nil {
		return nil, err
	}

	subject := user.ID.String()

	access, err := a.tokens.IssueAccessToken(subject, scopes)
	if err != nil {
		return nil, err
	}

	refresh, err := a.tokens.IssueRefreshToken(subject)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Refresh exchanges a refresh token for a new pair. A refresh token issued
// before the owner's watermark is retired and fails with
// ErrTokenNoLongerActive; issuing the new pair then retires this one.
func (a *Auther) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := a.tokens.ValidateRefresh(raw)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := a.repo.Users().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrCredentialsInvalid
		}
		return nil, err
	}

	// iat crosses the wire as a float and can come back a millisecond short
	// of what was minted, so the watermark only retires tokens it leads by
	// more than that.
	if user.LastRefresh == nil || user.LastRefresh.Sub(claims.Issued()) > time.Millisecond {
		a.logger.Debug("refresh token superseded", "user", user.ID)
		return nil, ErrTokenNoLongerActive
	}

	return a.IssueTokenPair(ctx, user, user.EntitledScopes())
}

// CurrentUser resolves the account behind a validated claim set. A subject
// that no longer exists fails with ErrCredentialsInvalid.
func (a *Auther) CurrentUser(ctx context.Context, claims *TokenClaims) (*User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := a.repo.Users().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrCredentialsInvalid
		}
		return nil, err
	}

	return user, nil
}

// AuthorizeScopes fails with ErrForbidden unless the claims carry every
// required scope.
func (a *Auther) AuthorizeScopes(claims *TokenClaims, required ...Scope) error {
	for _, scope := range required {
		if !claims.HasScope(scope) {
			return ErrForbidden
		}
	}
	return nil
}

// grantScopes intersects the requested scopes with the user's entitlement.
// A nil request grants the full entitlement.
func grantScopes(user *User, requested []Scope) []Scope {
	entitled := user.EntitledScopes()
	if requested == nil {
		return entitled
	}

	granted := []Scope{}
	for _, scope := range requested {
		for _, have := range entitled {
			if scope == have {
				granted = append(granted, scope)
				break
			}
		}
	}
	return granted
}
