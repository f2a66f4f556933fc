package fintrack

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

// ErrAuthenticationFailed is returned for any login failure. The message is
// deliberately uniform so callers cannot tell a missing user from a wrong
// password.
var ErrAuthenticationFailed = errors.New("incorrect username or password", errors.CategoryAuth).
	WithTextCode("AUTHENTICATION_FAILED").
	WithCode(errors.CodeUnauthorized)

// ErrCredentialsInvalid is returned for malformed or unverifiable tokens and
// for tokens that reference a user that no longer exists.
var ErrCredentialsInvalid = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode("CREDENTIALS_INVALID").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiry has passed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenNoLongerActive is returned for refresh tokens superseded by a later
// login or refresh (the last_refresh watermark moved past their issue time).
var ErrTokenNoLongerActive = errors.New("token is no longer active", errors.CategoryAuth).
	WithTextCode("TOKEN_NO_LONGER_ACTIVE").
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the actor lacks a required scope or is
// neither the owner of the record nor an admin.
var ErrForbidden = errors.New("you do not have permission to perform this operation", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrUsernameTaken is returned when registration hits the unique username
// constraint.
var ErrUsernameTaken = errors.New("username is already taken", errors.CategoryConflict).
	WithTextCode("USERNAME_TAKEN").
	WithCode(errors.CodeConflict)

// ErrNotFound is returned when an entity cannot be loaded by id
var ErrNotFound = errors.New("entity not found", errors.CategoryNotFound).
	WithTextCode("NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrNameNotUnique is returned when reference data (banks, categories) hits
// the unique name constraint.
var ErrNameNotUnique = errors.New("name is not unique", errors.CategoryValidation).
	WithTextCode("NAME_NOT_UNIQUE").
	WithCode(errors.CodeBadRequest)

// NewInvalidStateError reports a transaction status that blocks the
// requested mutation.
func NewInvalidStateError(status TransactionStatus, operation string) *errors.Error {
	return errors.New(
		fmt.Sprintf("transaction with status '%s' cannot be %s", status, operation),
		errors.CategoryValidation,
	).
		WithTextCode("INVALID_STATE").
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{
			"status":    string(status),
			"operation": operation,
		})
}

// NewFieldNotEditableError reports a patch field outside the editable
// whitelist.
func NewFieldNotEditableError(field string) *errors.Error {
	return errors.New(
		fmt.Sprintf("field '%s' is not editable", field),
		errors.CategoryValidation,
	).
		WithTextCode("FIELD_NOT_EDITABLE").
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// NewRelatedEntityNotFoundError reports a dangling foreign key, tagged with
// the relation that is missing.
func NewRelatedEntityNotFoundError(relation string) *errors.Error {
	return errors.New(
		fmt.Sprintf("%s does not exist", relation),
		errors.CategoryValidation,
	).
		WithTextCode("RELATED_ENTITY_NOT_FOUND").
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"relation": relation})
}

// NewValidationError reports a schema or value validation failure
func NewValidationError(reason string) *errors.Error {
	return errors.New(reason, errors.CategoryValidation).
		WithTextCode("VALIDATION_FAILED").
		WithCode(errors.CodeBadRequest)
}

// IsInvalidState reports whether err carries the INVALID_STATE text code
func IsInvalidState(err error) bool {
	return hasTextCode(err, "INVALID_STATE")
}

// IsFieldNotEditable reports whether err carries the FIELD_NOT_EDITABLE text code
func IsFieldNotEditable(err error) bool {
	return hasTextCode(err, "FIELD_NOT_EDITABLE")
}

// IsRelatedEntityNotFound reports whether err carries the
// RELATED_ENTITY_NOT_FOUND text code.
func IsRelatedEntityNotFound(err error) bool {
	return hasTextCode(err, "RELATED_ENTITY_NOT_FOUND")
}

func hasTextCode(err error, code string) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
