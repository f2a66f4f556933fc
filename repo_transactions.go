package fintrack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// sortableTransactionColumns is the whitelist for order_by parameters
var sortableTransactionColumns = map[string]struct{}{
	"occurred_at":      {},
	"amount":           {},
	"status":           {},
	"party_type":       {},
	"transaction_type": {},
	"created_at":       {},
	"updated_at":       {},
}

// OrderByItem is one parsed order_by term
type OrderByItem struct {
	Field string
	Desc  bool
}

// ParseOrderBy parses order_by terms in the "-field" descending convention.
// Unknown columns and duplicate fields fail validation.
func ParseOrderBy(terms []string) ([]OrderByItem, error) {
	items := []OrderByItem{}
	seen := map[string]struct{}{}

	for _, term := range terms {
		field := strings.TrimSpace(term)
		if field == "" {
			continue
		}

		desc := strings.HasPrefix(field, "-")
		if desc {
			field = field[1:]
		}

		if _, ok := sortableTransactionColumns[field]; !ok {
			return nil, NewValidationError(fmt.Sprintf("cannot sort by '%s'", field))
		}

		if _, dup := seen[field]; dup {
			return nil, NewValidationError(fmt.Sprintf("duplicate sort field '%s'", field))
		}
		seen[field] = struct{}{}

		items = append(items, OrderByItem{Field: field, Desc: desc})
	}

	return items, nil
}

// TransactionFilters narrows a transaction listing. Zero values mean "no
// filter"; UserID is mandatory because listings are always owner scoped.
type TransactionFilters struct {
	UserID          uuid.UUID
	Status          *TransactionStatus
	TransactionType *TransactionType
	PartyType       *PartyType
	CategoryID      *uuid.UUID
	SenderBankID    *uuid.UUID
	RecipientBankID *uuid.UUID
	RecipientINN    *string
	OccurredAfter   *time.Time
	OccurredBefore  *time.Time
	IncludeDeleted  bool

	OrderBy []OrderByItem
	Limit   int
	Offset  int
}

type Transactions interface {
	repository.Repository[*Transaction]

	Insert(ctx context.Context, trx *Transaction) (*Transaction, error)
	InsertTx(ctx context.Context, tx bun.IDB, trx *Transaction) (*Transaction, error)

	GetOwned(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetOwnedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Transaction, error)

	Search(ctx context.Context, filters TransactionFilters) ([]*Transaction, int, error)
	SearchTx(ctx context.Context, tx bun.IDB, filters TransactionFilters) ([]*Transaction, int, error)
}

type transactions struct {
	repository.Repository[*Transaction]
	db *bun.DB
}

var (
	_ Transactions                        = (*transactions)(nil)
	_ repository.Repository[*Transaction] = (*transactions)(nil)
)

func NewTransactionsRepository(db *bun.DB) Transactions {
	repo := repository.NewRepository[*Transaction](db, repository.ModelHandlers[*Transaction]{
		NewRecord: func() *Transaction { return &Transaction{} },
		GetID: func(t *Transaction) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Transaction, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &transactions{
		Repository: repo,
		db:         db,
	}
}

func (r *transactions) Insert(ctx context.Context, trx *Transaction) (*Transaction, error) {
	return r.InsertTx(ctx, r.db, trx)
}

func (r *transactions) InsertTx(ctx context.Context, tx bun.IDB, trx *Transaction) (*Transaction, error) {
	if trx != nil && trx.ID == uuid.Nil {
		trx.ID = uuid.New()
	}
	trx.EnsureStatus()
	return r.Repository.CreateTx(ctx, tx, trx)
}

func (r *transactions) GetOwned(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return r.GetOwnedTx(ctx, r.db, id)
}

func (r *transactions) GetOwnedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Transaction, error) {
	record := &Transaction{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *transactions) Search(ctx context.Context, filters TransactionFilters) ([]*Transaction, int, error) {
	return r.SearchTx(ctx, r.db, filters)
}

// SearchTx runs a filtered listing. The name stays clear of the generic
// repository's criteria-based List so both can live on the same interface.
func (r *transactions) SearchTx(ctx context.Context, tx bun.IDB, filters TransactionFilters) ([]*Transaction, int, error) {
	records := []*Transaction{}

	q := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", filters.UserID)

	if !filters.IncludeDeleted {
		q = q.Where("?TableAlias.status != ?", StatusDeleted)
	}

	if filters.Status != nil {
		q = q.Where("?TableAlias.status = ?", *filters.Status)
	}

	if filters.TransactionType != nil {
		q = q.Where("?TableAlias.transaction_type = ?", *filters.TransactionType)
	}

	if filters.PartyType != nil {
		q = q.Where("?TableAlias.party_type = ?", *filters.PartyType)
	}

	if filters.CategoryID != nil {
		q = q.Where("?TableAlias.category_id = ?", *filters.CategoryID)
	}

	if filters.SenderBankID != nil {
		q = q.Where("?TableAlias.sender_bank_id = ?", *filters.SenderBankID)
	}

	if filters.RecipientBankID != nil {
		q = q.Where("?TableAlias.recipient_bank_id = ?", *filters.RecipientBankID)
	}

	if filters.RecipientINN != nil {
		q = q.Where("?TableAlias.recipient_inn = ?", *filters.RecipientINN)
	}

	if filters.OccurredAfter != nil {
		q = q.Where("?TableAlias.occurred_at >= ?", *filters.OccurredAfter)
	}

	if filters.OccurredBefore != nil {
		q = q.Where("?TableAlias.occurred_at <= ?", *filters.OccurredBefore)
	}

	for _, item := range filters.OrderBy {
		direction := "ASC"
		if item.Desc {
			direction = "DESC"
		}
		q = q.OrderExpr("?TableAlias.? ?", bun.Ident(item.Field), bun.Safe(direction))
	}

	if len(filters.OrderBy) == 0 {
		q = q.OrderExpr("?TableAlias.occurred_at DESC")
	}

	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}

	if filters.Offset > 0 {
		q = q.Offset(filters.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
