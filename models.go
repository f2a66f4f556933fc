package fintrack

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Scope is a named capability embedded in access tokens
type Scope = string

const (
	// ScopeAdmin grants administrator privileges
	ScopeAdmin Scope = "admin"
)

// PartyType identifies the kind of counterparty on a transaction
type PartyType string

const (
	PartyIndividual  PartyType = "INDIVIDUAL"
	PartyLegalEntity PartyType = "LEGAL_ENTITY"
)

// Valid reports whether the value is a known party type
func (p PartyType) Valid() bool {
	switch p {
	case PartyIndividual, PartyLegalEntity:
		return true
	}
	return false
}

// TransactionType is the direction of the money movement
type TransactionType string

const (
	TypeCredit TransactionType = "CREDIT"
	TypeDebit  TransactionType = "DEBIT"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeCredit, TypeDebit:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a transaction.
// NEW is the only state that allows free edits and deletion; DELETED is the
// soft-delete terminal state.
type TransactionStatus string

const (
	StatusNew        TransactionStatus = "NEW"
	StatusConfirmed  TransactionStatus = "CONFIRMED"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCancelled  TransactionStatus = "CANCELLED"
	StatusExecuted   TransactionStatus = "EXECUTED"
	StatusDeleted    TransactionStatus = "DELETED"
	StatusRefunded   TransactionStatus = "REFUNDED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusProcessing, StatusCancelled,
		StatusExecuted, StatusDeleted, StatusRefunded:
		return true
	}
	return false
}

// User is the account model. LastRefresh is the refresh-token watermark: any
// refresh token issued strictly before it is no longer active.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsAdmin       bool       `bun:"is_admin,notnull" json:"is_admin"`
	LastRefresh   *time.Time `bun:"last_refresh,nullzero" json:"last_refresh,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EntitledScopes returns every scope this user may be granted
func (u *User) EntitledScopes() []Scope {
	scopes := []Scope{}
	if u.IsAdmin {
		scopes = append(scopes, ScopeAdmin)
	}
	return scopes
}

// Bank is shared reference data, mutated by admins only
type Bank struct {
	bun.BaseModel `bun:"table:banks,alias:bnk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// TransactionCategory is shared reference data, mutated by admins only
type TransactionCategory struct {
	bun.BaseModel `bun:"table:transaction_categories,alias:cat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Transaction is a single money movement owned by the creating user.
// Relationships are plain foreign-key ids; callers that need the related
// rows load them explicitly through the repositories.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:trx"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`

	PartyType       PartyType         `bun:"party_type,notnull" json:"party_type,omitempty"`
	OccurredAt      time.Time         `bun:"occurred_at,notnull" json:"occurred_at"`
	TransactionType TransactionType   `bun:"transaction_type,notnull" json:"transaction_type,omitempty"`
	Comment         string            `bun:"comment" json:"comment"`
	Amount          decimal.Decimal   `bun:"amount,notnull,type:numeric(12,5)" json:"amount"`
	Status          TransactionStatus `bun:"status,notnull" json:"status,omitempty"`

	SenderBankID  uuid.UUID `bun:"sender_bank_id,notnull,type:uuid" json:"sender_bank_id,omitempty"`
	AccountNumber string    `bun:"account_number,notnull" json:"account_number,omitempty"`

	RecipientBankID        uuid.UUID `bun:"recipient_bank_id,notnull,type:uuid" json:"recipient_bank_id,omitempty"`
	RecipientINN           string    `bun:"recipient_inn,notnull" json:"recipient_inn,omitempty"`
	RecipientAccountNumber string    `bun:"recipient_account_number,notnull" json:"recipient_account_number,omitempty"`

	CategoryID     uuid.UUID `bun:"category_id,notnull,type:uuid" json:"category_id,omitempty"`
	RecipientPhone string    `bun:"recipient_phone,notnull" json:"recipient_phone,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureStatus defaults a zero status to NEW
func (t *Transaction) EnsureStatus() {
	if t.Status == "" {
		t.Status = StatusNew
	}
}

// IsOwnedBy reports whether the user owns this transaction
func (t *Transaction) IsOwnedBy(user *User) bool {
	if user == nil {
		return false
	}
	return t.UserID == user.ID
}
