package fintrack

import (
	"strings"

	"github.com/goliatone/go-router"
)

const bearerScheme = "Bearer"

// ExtractBearerToken pulls the raw token out of the Authorization header
func ExtractBearerToken(ctx router.Context) (string, error) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	l := len(bearerScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], bearerScheme) {
		return strings.TrimSpace(header[l:]), nil
	}
	return "", ErrCredentialsInvalid
}

// RequireAuth validates the bearer access token, checks the required scopes,
// and stashes the claims in both the router locals and the request context.
func RequireAuth(tokens *TokenService, errorHandler router.ErrorHandler, scopes ...Scope) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = JSONErrorHandler
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := ExtractBearerToken(ctx)
			if err != nil {
				return errorHandler(ctx, err)
			}

			claims, err := tokens.ValidateAccess(raw)
			if err != nil {
				return errorHandler(ctx, err)
			}

			for _, scope := range scopes {
				if !claims.HasScope(scope) {
					return errorHandler(ctx, ErrForbidden)
				}
			}

			ctx.Locals(ClaimsLocalsKey, claims)
			ctx.SetContext(WithClaims(ctx.Context(), claims))

			return next(ctx)
		}
	}
}

// RouterClaims retrieves the claims the auth middleware stored on the
// router context.
func RouterClaims(ctx router.Context) (*TokenClaims, error) {
	value := ctx.Locals(ClaimsLocalsKey)
	if value == nil {
		return nil, ErrCredentialsInvalid
	}

	claims, ok := value.(*TokenClaims)
	if !ok || claims == nil {
		return nil, ErrCredentialsInvalid
	}

	return claims, nil
}
