package fintrack_test

import (
	"testing"
	"time"

	fintrack "github.com/goliatone/go-fintrack"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardFixtures(status fintrack.TransactionStatus) (*fintrack.Transaction, *fintrack.User, *fintrack.User, *fintrack.User) {
	owner := &fintrack.User{ID: uuid.New(), Username: "owner"}
	stranger := &fintrack.User{ID: uuid.New(), Username: "stranger"}
	admin := &fintrack.User{ID: uuid.New(), Username: "admin", IsAdmin: true}

	trx := &fintrack.Transaction{
		ID:     uuid.New(),
		UserID: owner.ID,
		Status: status,
	}

	return trx, owner, stranger, admin
}

func TestTransactionGuardOwnership(t *testing.T) {
	t.Run("owner may edit a NEW transaction", func(t *testing.T) {
		trx, owner, _, _ := guardFixtures(fintrack.StatusNew)
		guard := fintrack.NewTransactionGuard(trx, owner)
		assert.NoError(t, guard.EnsureEditable([]fintrack.EditableField{fintrack.FieldComment}))
	})

	t.Run("admin may edit another user's transaction", func(t *testing.T) {
		trx, _, _, admin := guardFixtures(fintrack.StatusNew)
		guard := fintrack.NewTransactionGuard(trx, admin)
		assert.NoError(t, guard.EnsureEditable([]fintrack.EditableField{fintrack.FieldComment}))
	})

	t.Run("stranger is refused", func(t *testing.T) {
		trx, _, stranger, _ := guardFixtures(fintrack.StatusNew)
		guard := fintrack.NewTransactionGuard(trx, stranger)
		assert.ErrorIs(t, guard.EnsureEditable(nil), fintrack.ErrForbidden)
		assert.ErrorIs(t, guard.EnsureDeletable(), fintrack.ErrForbidden)
	})

	t.Run("ownership is checked before state", func(t *testing.T) {
		trx, _, stranger, _ := guardFixtures(fintrack.StatusConfirmed)
		guard := fintrack.NewTransactionGuard(trx, stranger)

		err := guard.EnsureEditable([]fintrack.EditableField{fintrack.FieldComment})
		assert.ErrorIs(t, err, fintrack.ErrForbidden)
		assert.False(t, fintrack.IsInvalidState(err))
	})

	t.Run("nil actor is refused", func(t *testing.T) {
		trx, _, _, _ := guardFixtures(fintrack.StatusNew)
		guard := fintrack.NewTransactionGuard(trx, nil)
		assert.ErrorIs(t, guard.EnsureDeletable(), fintrack.ErrForbidden)
	})
}

func TestTransactionGuardStatusGating(t *testing.T) {
	locked := []fintrack.TransactionStatus{
		fintrack.StatusConfirmed,
		fintrack.StatusProcessing,
		fintrack.StatusCancelled,
		fintrack.StatusExecuted,
		fintrack.StatusRefunded,
	}

	for _, status := range locked {
		t.Run(string(status)+" blocks edits and deletes", func(t *testing.T) {
			trx, owner, _, _ := guardFixtures(status)
			guard := fintrack.NewTransactionGuard(trx, owner)

			err := guard.EnsureEditable([]fintrack.EditableField{fintrack.FieldComment})
			assert.True(t, fintrack.IsInvalidState(err))

			err = guard.EnsureDeletable()
			assert.True(t, fintrack.IsInvalidState(err))
		})
	}

	t.Run("NEW allows edits and deletes", func(t *testing.T) {
		trx, owner, _, _ := guardFixtures(fintrack.StatusNew)
		guard := fintrack.NewTransactionGuard(trx, owner)
		assert.NoError(t, guard.EnsureEditable([]fintrack.EditableField{fintrack.FieldStatus}))
		assert.NoError(t, guard.EnsureDeletable())
	})

	t.Run("DELETED still allows edits", func(t *testing.T) {
		trx, owner, _, _ := guardFixtures(fintrack.StatusDeleted)
		guard := fintrack.NewTransactionGuard(trx, owner)
		assert.NoError(t, guard.EnsureEditable([]fintrack.EditableField{fintrack.FieldComment}))
	})
}

func TestParseEditableField(t *testing.T) {
	t.Run("accepts every whitelisted field", func(t *testing.T) {
		for _, field := range fintrack.EditableFields {
			parsed, err := fintrack.ParseEditableField(string(field))
			require.NoError(t, err)
			assert.Equal(t, field, parsed)
		}
	})

	t.Run("refuses anything else", func(t *testing.T) {
		for _, name := range []string{"user_id", "account_number", "created_at", "id", ""} {
			_, err := fintrack.ParseEditableField(name)
			assert.True(t, fintrack.IsFieldNotEditable(err), name)
		}
	})
}

func TestTransactionPatch(t *testing.T) {
	t.Run("Fields reports only what is set", func(t *testing.T) {
		comment := "updated"
		amount := decimal.RequireFromString("42.50")

		patch := fintrack.TransactionPatch{
			Comment: &comment,
			Amount:  &amount,
		}

		assert.ElementsMatch(t,
			[]fintrack.EditableField{fintrack.FieldComment, fintrack.FieldAmount},
			patch.Fields(),
		)
	})

	t.Run("Apply leaves unset fields untouched", func(t *testing.T) {
		comment := "updated"
		patch := fintrack.TransactionPatch{Comment: &comment}

		trx := &fintrack.Transaction{
			Comment:    "original",
			Status:     fintrack.StatusNew,
			OccurredAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		}

		patch.Apply(trx)

		assert.Equal(t, "updated", trx.Comment)
		assert.Equal(t, fintrack.StatusNew, trx.Status)
		assert.Equal(t, 2024, trx.OccurredAt.Year())
	})

	t.Run("Validate rejects a bad INN", func(t *testing.T) {
		inn := "1111111111"
		patch := fintrack.TransactionPatch{RecipientINN: &inn}
		assert.Error(t, patch.Validate())
	})

	t.Run("Validate rejects a malformed phone", func(t *testing.T) {
		phone := "not-a-phone"
		patch := fintrack.TransactionPatch{RecipientPhone: &phone}
		assert.Error(t, patch.Validate())
	})

	t.Run("Validate rejects an unknown status", func(t *testing.T) {
		status := fintrack.TransactionStatus("ARCHIVED")
		patch := fintrack.TransactionPatch{Status: &status}
		assert.Error(t, patch.Validate())
	})

	t.Run("Validate accepts a clean patch", func(t *testing.T) {
		inn := "6449013711"
		phone := "+79991234567"
		status := fintrack.StatusConfirmed

		patch := fintrack.TransactionPatch{
			RecipientINN:   &inn,
			RecipientPhone: &phone,
			Status:         &status,
		}

		assert.NoError(t, patch.Validate())
	})
}
