package fintrack

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(stderrors.New(`ERROR: duplicate key value violates unique constraint "banks_name_key" (SQLSTATE=23505)`)))
	assert.True(t, isUniqueViolation(stderrors.New("UNIQUE constraint failed: users.username")))
	assert.False(t, isUniqueViolation(stderrors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(stderrors.New(`ERROR: insert or update on table "transactions" violates foreign key constraint "transactions_category_id_fkey" (SQLSTATE=23503)`)))
	assert.True(t, isForeignKeyViolation(stderrors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isForeignKeyViolation(stderrors.New("UNIQUE constraint failed: users.username")))
	assert.False(t, isForeignKeyViolation(nil))
}

func TestIsDataError(t *testing.T) {
	assert.True(t, isDataError(stderrors.New(`ERROR: invalid input syntax for type uuid: "nope" (SQLSTATE=22P02)`)))
	assert.True(t, isDataError(stderrors.New("ERROR: value too long for type character varying(120) (SQLSTATE=22001)")))
	assert.True(t, isDataError(stderrors.New("CHECK constraint failed: transactions")))
	assert.False(t, isDataError(stderrors.New("connection refused")))
	assert.False(t, isDataError(nil))
}

func TestTranslateTransactionConstraint(t *testing.T) {
	t.Run("names the relation on postgres constraints", func(t *testing.T) {
		cases := map[string]string{
			`violates foreign key constraint "transactions_category_id_fkey"`:       "category",
			`violates foreign key constraint "transactions_sender_bank_id_fkey"`:    "bank",
			`violates foreign key constraint "transactions_recipient_bank_id_fkey"`: "bank",
			`violates foreign key constraint "transactions_user_id_fkey"`:           "user",
		}

		for msg, relation := range cases {
			err := translateTransactionConstraint(stderrors.New(msg))
			assert.True(t, IsRelatedEntityNotFound(err), msg)
			assert.Contains(t, err.Error(), relation, msg)
		}
	})

	t.Run("falls back to a generic validation error", func(t *testing.T) {
		err := translateTransactionConstraint(stderrors.New("FOREIGN KEY constraint failed"))
		assert.Error(t, err)
		assert.False(t, IsRelatedEntityNotFound(err))
	})

	t.Run("passes through unrelated errors", func(t *testing.T) {
		original := stderrors.New("connection refused")
		assert.Equal(t, original, translateTransactionConstraint(original))
		assert.NoError(t, translateTransactionConstraint(nil))
	})
}
