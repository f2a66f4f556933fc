package fintrack

import (
	"strings"
)

// isUniqueViolation matches unique-constraint failures across the drivers we
// run against (pgdriver in production, modernc sqlite in tests).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyViolation matches foreign-key failures across drivers
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// isDataError matches malformed-value errors surfaced by the driver, e.g. a
// string that cannot be cast to the column type. These are translated to the
// same generic failures as constraint violations so nothing internal leaks.
func isDataError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "invalid input syntax") ||
		strings.Contains(msg, "value too long") ||
		strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "CHECK constraint failed")
}

// translateTransactionConstraint turns a foreign-key violation on the
// transactions table into a domain error naming the missing relation. The
// constraint name carries the violated column on postgres; when the driver
// does not name it (sqlite) we fall back to a generic validation error.
func translateTransactionConstraint(err error) error {
	if err == nil {
		return nil
	}

	if !isForeignKeyViolation(err) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "category_id"):
		return NewRelatedEntityNotFoundError("category")
	case strings.Contains(msg, "sender_bank_id"), strings.Contains(msg, "recipient_bank_id"):
		return NewRelatedEntityNotFoundError("bank")
	case strings.Contains(msg, "user_id"):
		return NewRelatedEntityNotFoundError("user")
	}

	return NewValidationError("related entity does not exist")
}
