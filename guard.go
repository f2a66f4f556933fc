package fintrack

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EditableField enumerates the transaction fields a patch may touch. The
// closed set keeps the whitelist a compile-time concern; unknown JSON keys
// are rejected at the boundary through ParseEditableField.
type EditableField string

const (
	FieldPartyType       EditableField = "party_type"
	FieldOccurredAt      EditableField = "occurred_at"
	FieldComment         EditableField = "comment"
	FieldAmount          EditableField = "amount"
	FieldStatus          EditableField = "status"
	FieldSenderBankID    EditableField = "sender_bank_id"
	FieldRecipientBankID EditableField = "recipient_bank_id"
	FieldRecipientINN    EditableField = "recipient_inn"
	FieldCategoryID      EditableField = "category_id"
	FieldRecipientPhone  EditableField = "recipient_phone"
)

// EditableFields lists every field a patch may carry. user_id, the account
// numbers, and created_at are never editable.
var EditableFields = []EditableField{
	FieldPartyType,
	FieldOccurredAt,
	FieldComment,
	FieldAmount,
	FieldStatus,
	FieldSenderBankID,
	FieldRecipientBankID,
	FieldRecipientINN,
	FieldCategoryID,
	FieldRecipientPhone,
}

// ParseEditableField maps a wire field name onto the closed editable set,
// failing with FieldNotEditable for anything outside it.
func ParseEditableField(name string) (EditableField, error) {
	for _, f := range EditableFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", NewFieldNotEditableError(name)
}

// lockedStatuses blocks both edit and delete. NEW is freely mutable and
// DELETED is deliberately absent: editing a soft-deleted transaction stays
// allowed until the policy question is settled the other way.
var lockedStatuses = map[TransactionStatus]struct{}{
	StatusConfirmed:  {},
	StatusProcessing: {},
	StatusCancelled:  {},
	StatusExecuted:   {},
	StatusRefunded:   {},
}

// TransactionPatch is a partial update; nil fields are left untouched.
// Only whitelisted fields exist on the struct, so a patch cannot express a
// forbidden mutation.
type TransactionPatch struct {
	PartyType       *PartyType         `json:"party_type"`
	OccurredAt      *time.Time         `json:"occurred_at"`
	Comment         *string            `json:"comment"`
	Amount          *decimal.Decimal   `json:"amount"`
	Status          *TransactionStatus `json:"status"`
	SenderBankID    *uuid.UUID         `json:"sender_bank_id"`
	RecipientBankID *uuid.UUID         `json:"recipient_bank_id"`
	RecipientINN    *string            `json:"recipient_inn"`
	CategoryID      *uuid.UUID         `json:"category_id"`
	RecipientPhone  *string            `json:"recipient_phone"`
}

// Fields returns the editable fields the patch actually sets
func (p TransactionPatch) Fields() []EditableField {
	fields := []EditableField{}
	if p.PartyType != nil {
		fields = append(fields, FieldPartyType)
	}
	if p.OccurredAt != nil {
		fields = append(fields, FieldOccurredAt)
	}
	if p.Comment != nil {
		fields = append(fields, FieldComment)
	}
	if p.Amount != nil {
		fields = append(fields, FieldAmount)
	}
	if p.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if p.SenderBankID != nil {
		fields = append(fields, FieldSenderBankID)
	}
	if p.RecipientBankID != nil {
		fields = append(fields, FieldRecipientBankID)
	}
	if p.RecipientINN != nil {
		fields = append(fields, FieldRecipientINN)
	}
	if p.CategoryID != nil {
		fields = append(fields, FieldCategoryID)
	}
	if p.RecipientPhone != nil {
		fields = append(fields, FieldRecipientPhone)
	}
	return fields
}

// Apply copies the set fields onto the transaction
func (p TransactionPatch) Apply(trx *Transaction) {
	if p.PartyType != nil {
		trx.PartyType = *p.PartyType
	}
	if p.OccurredAt != nil {
		trx.OccurredAt = *p.OccurredAt
	}
	if p.Comment != nil {
		trx.Comment = *p.Comment
	}
	if p.Amount != nil {
		trx.Amount = *p.Amount
	}
	if p.Status != nil {
		trx.Status = *p.Status
	}
	if p.SenderBankID != nil {
		trx.SenderBankID = *p.SenderBankID
	}
	if p.RecipientBankID != nil {
		trx.RecipientBankID = *p.RecipientBankID
	}
	if p.RecipientINN != nil {
		trx.RecipientINN = *p.RecipientINN
	}
	if p.CategoryID != nil {
		trx.CategoryID = *p.CategoryID
	}
	if p.RecipientPhone != nil {
		trx.RecipientPhone = *p.RecipientPhone
	}
}

// Validate will run validation rules on the set fields
func (p TransactionPatch) Validate() error {
	if p.PartyType != nil && !p.PartyType.Valid() {
		return NewValidationError("party_type is not valid")
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status is not valid")
	}

	err := validation.ValidateStruct(&p,
		validation.Field(&p.RecipientINN, INNRule()),
		validation.Field(&p.RecipientPhone, PhoneRule()),
	)
	return translateOzzoError(err)
}

// TransactionGuard decides whether a mutation or deletion is permitted for a
// given (transaction, actor) pair. It is pure: no I/O, no clock.
type TransactionGuard struct {
	transaction *Transaction
	actor       *User
}

// NewTransactionGuard returns a guard bound to one transaction and actor
func NewTransactionGuard(trx *Transaction, actor *User) *TransactionGuard {
	return &TransactionGuard{
		transaction: trx,
		actor:       actor,
	}
}

// EnsureEditable fails unless the actor may edit the transaction and every
// given field is editable in its current status. Ownership is checked before
// state so a non-owner always sees Forbidden.
func (g *TransactionGuard) EnsureEditable(fields []EditableField) error {
	if err := g.ensureOwnerOrAdmin(); err != nil {
		return err
	}

	if _, locked := lockedStatuses[g.transaction.Status]; locked {
		return NewInvalidStateError(g.transaction.Status, "edited")
	}

	for _, field := range fields {
		if _, err := ParseEditableField(string(field)); err != nil {
			return err
		}
	}

	return nil
}

// EnsureDeletable fails unless the actor may soft-delete the transaction in
// its current status.
func (g *TransactionGuard) EnsureDeletable() error {
	if err := g.ensureOwnerOrAdmin(); err != nil {
		return err
	}

	if _, locked := lockedStatuses[g.transaction.Status]; locked {
		return NewInvalidStateError(g.transaction.Status, "deleted")
	}

	return nil
}

func (g *TransactionGuard) ensureOwnerOrAdmin() error {
	if g.actor != nil && (g.actor.IsAdmin || g.transaction.IsOwnedBy(g.actor)) {
		return nil
	}
	return ErrForbidden
}
