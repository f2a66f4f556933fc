package fintrack_test

import (
	"context"
	"testing"
	"time"

	fintrack "github.com/goliatone/go-fintrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authStack struct {
	repo   fintrack.RepositoryManager
	tokens *fintrack.TokenService
	auther *fintrack.Auther
	now    time.Time
}

func setupAuthStack(t *testing.T) *authStack {
	t.Helper()

	stack := &authStack{
		repo: setupRepo(t),
		now:  time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC),
	}

	clock := func() time.Time { return stack.now }

	stack.tokens = fintrack.NewTokenService(
		testSigningKey,
		15*time.Minute,
		7*24*time.Hour,
		fintrack.WithTokenClock(clock),
	)

	stack.auther = fintrack.NewAuther(stack.repo, stack.tokens,
		fintrack.WithAutherClock(clock),
	)

	return stack
}

func (s *authStack) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func TestAutherRegister(t *testing.T) {
	ctx := context.Background()
	stack := setupAuthStack(t)

	pair, err := stack.auther.Register(ctx, "alice", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	t.Run("access token resolves to the new account", func(t *testing.T) {
		claims, err := stack.tokens.ValidateAccess(pair.AccessToken)
		require.NoError(t, err)

		user, err := stack.auther.CurrentUser(ctx, claims)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.False(t, user.IsAdmin)
	})

	t.Run("duplicate username is refused", func(t *testing.T) {
		_, err := stack.auther.Register(ctx, "alice", "another-password")
		assert.ErrorIs(t, err, fintrack.ErrUsernameTaken)
	})
}

func TestAutherLogin(t *testing.T) {
	ctx := context.Background()
	stack := setupAuthStack(t)
	seedUser(t, stack.repo, "bob", false)

	t.Run("valid credentials issue a pair", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "bob", "bob-password", nil)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		_, badPassword := stack.auther.Login(ctx, "bob", "wrong", nil)
		_, badUser := stack.auther.Login(ctx, "nobody", "wrong", nil)

		assert.ErrorIs(t, badPassword, fintrack.ErrAuthenticationFailed)
		assert.ErrorIs(t, badUser, fintrack.ErrAuthenticationFailed)
		assert.Equal(t, badPassword.Error(), badUser.Error())
	})
}

func TestAutherScopeGrants(t *testing.T) {
	ctx := context.Background()
	stack := setupAuthStack(t)
	seedUser(t, stack.repo, "root", true)
	seedUser(t, stack.repo, "plain", false)

	grantedScopes := func(pair *fintrack.TokenPair) []string {
		claims, err := stack.tokens.ValidateAccess(pair.AccessToken)
		require.NoError(t, err)
		return claims.Scopes
	}

	t.Run("admin requesting admin receives it", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "root", "root-password", []fintrack.Scope{fintrack.ScopeAdmin})
		require.NoError(t, err)
		assert.Contains(t, grantedScopes(pair), fintrack.ScopeAdmin)
	})

	t.Run("non-admin requesting admin is silently narrowed", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "plain", "plain-password", []fintrack.Scope{fintrack.ScopeAdmin})
		require.NoError(t, err)
		assert.Empty(t, grantedScopes(pair))
	})

	t.Run("explicitly empty request grants nothing", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "root", "root-password", []fintrack.Scope{})
		require.NoError(t, err)
		assert.Empty(t, grantedScopes(pair))
	})

	t.Run("AuthorizeScopes enforces the grant", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "plain", "plain-password", nil)
		require.NoError(t, err)

		claims, err := stack.tokens.ValidateAccess(pair.AccessToken)
		require.NoError(t, err)

		assert.ErrorIs(t, stack.auther.AuthorizeScopes(claims, fintrack.ScopeAdmin), fintrack.ErrForbidden)
		assert.NoError(t, stack.auther.AuthorizeScopes(claims))
	})
}

func TestAutherRefresh(t *testing.T) {
	ctx := context.Background()
	stack := setupAuthStack(t)
	seedUser(t, stack.repo, "carol", false)

	first, err := stack.auther.Login(ctx, "carol", "carol-password", nil)
	require.NoError(t, err)

	t.Run("a fresh refresh token works", func(t *testing.T) {
		stack.advance(time.Minute)

		pair, err := stack.auther.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)

		// refreshing moved the watermark, retiring the first token
		stack.advance(time.Minute)
		_, err = stack.auther.Refresh(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, fintrack.ErrTokenNoLongerActive)
	})

	t.Run("a later login retires outstanding refresh tokens", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "carol", "carol-password", nil)
		require.NoError(t, err)

		stack.advance(time.Minute)
		_, err = stack.auther.Login(ctx, "carol", "carol-password", nil)
		require.NoError(t, err)

		stack.advance(time.Minute)
		_, err = stack.auther.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, fintrack.ErrTokenNoLongerActive)
	})

	t.Run("an access token cannot refresh", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "carol", "carol-password", nil)
		require.NoError(t, err)

		_, err = stack.auther.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})

	t.Run("an expired refresh token is refused", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "carol", "carol-password", nil)
		require.NoError(t, err)

		stack.advance(8 * 24 * time.Hour)
		_, err = stack.auther.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, fintrack.ErrTokenExpired)
	})

	t.Run("rotation within the same second retires the old token", func(t *testing.T) {
		pair, err := stack.auther.Login(ctx, "carol", "carol-password", nil)
		require.NoError(t, err)

		stack.advance(5 * time.Millisecond)
		_, err = stack.auther.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		stack.advance(5 * time.Millisecond)
		_, err = stack.auther.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, fintrack.ErrTokenNoLongerActive)
	})
}
