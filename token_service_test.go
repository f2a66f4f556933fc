package fintrack_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	fintrack "github.com/goliatone/go-fintrack"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func newTestTokenService(clock func() time.Time) *fintrack.TokenService {
	return fintrack.NewTokenService(
		testSigningKey,
		15*time.Minute,
		7*24*time.Hour,
		fintrack.WithTokenClock(clock),
	)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	service := newTestTokenService(nil)
	subject := uuid.New()

	t.Run("access token carries subject and scopes", func(t *testing.T) {
		raw, err := service.IssueAccessToken(subject.String(), []fintrack.Scope{fintrack.ScopeAdmin})
		require.NoError(t, err)
		require.NotEmpty(t, raw)

		claims, err := service.ValidateAccess(raw)
		require.NoError(t, err)

		assert.Equal(t, fintrack.TokenKindAccess, claims.TokenType)
		assert.True(t, claims.HasScope(fintrack.ScopeAdmin))

		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, subject, id)
	})

	t.Run("refresh token carries no scopes", func(t *testing.T) {
		raw, err := service.IssueRefreshToken(subject.String())
		require.NoError(t, err)

		claims, err := service.ValidateRefresh(raw)
		require.NoError(t, err)

		assert.Equal(t, fintrack.TokenKindRefresh, claims.TokenType)
		assert.Empty(t, claims.Scopes)
	})

	t.Run("issue time survives the wire at millisecond precision", func(t *testing.T) {
		at := time.Date(2026, time.March, 5, 8, 30, 15, int(747*time.Millisecond), time.UTC)
		precise := fintrack.NewTokenService(testSigningKey, 15*time.Minute, 7*24*time.Hour,
			fintrack.WithTokenClock(func() time.Time { return at }),
		)

		raw, err := precise.IssueRefreshToken(subject.String())
		require.NoError(t, err)

		claims, err := precise.ValidateRefresh(raw)
		require.NoError(t, err)

		assert.WithinDuration(t, at, claims.Issued(), time.Millisecond)
	})
}

func TestTokenServiceKindMismatch(t *testing.T) {
	service := newTestTokenService(nil)
	subject := uuid.New().String()

	access, err := service.IssueAccessToken(subject, nil)
	require.NoError(t, err)

	refresh, err := service.IssueRefreshToken(subject)
	require.NoError(t, err)

	t.Run("refresh token rejected as access", func(t *testing.T) {
		_, err := service.ValidateAccess(refresh)
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})

	t.Run("access token rejected as refresh", func(t *testing.T) {
		_, err := service.ValidateRefresh(access)
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})
}

func TestTokenServiceExpiry(t *testing.T) {
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	service := newTestTokenService(func() time.Time { return clock() })

	raw, err := service.IssueAccessToken(uuid.New().String(), nil)
	require.NoError(t, err)

	t.Run("valid before the deadline", func(t *testing.T) {
		clock = func() time.Time { return now.Add(14 * time.Minute) }
		_, err := service.ValidateAccess(raw)
		assert.NoError(t, err)
	})

	t.Run("expired after the deadline", func(t *testing.T) {
		clock = func() time.Time { return now.Add(16 * time.Minute) }
		_, err := service.ValidateAccess(raw)
		assert.ErrorIs(t, err, fintrack.ErrTokenExpired)
	})
}

func TestTokenServiceRejectsForgeries(t *testing.T) {
	service := newTestTokenService(nil)
	subject := uuid.New().String()

	t.Run("tampered token", func(t *testing.T) {
		raw, err := service.IssueAccessToken(subject, nil)
		require.NoError(t, err)

		tampered := raw[:len(raw)-4] + "AAAA"
		_, err = service.Validate(tampered)
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := fintrack.NewTokenService([]byte("other-key"), 15*time.Minute, 7*24*time.Hour)
		raw, err := other.IssueAccessToken(subject, nil)
		require.NoError(t, err)

		_, err = service.Validate(raw)
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})

	t.Run("wrong signing algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS384, &fintrack.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TokenType: fintrack.TokenKindAccess,
		})

		raw, err := token.SignedString(testSigningKey)
		require.NoError(t, err)

		_, err = service.Validate(raw)
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, fintrack.ErrCredentialsInvalid)
	})
}
