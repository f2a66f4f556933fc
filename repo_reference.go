package fintrack

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Banks stores the shared bank reference rows
type Banks interface {
	repository.Repository[*Bank]

	Insert(ctx context.Context, bank *Bank) (*Bank, error)
	InsertTx(ctx context.Context, tx bun.IDB, bank *Bank) (*Bank, error)

	All(ctx context.Context) ([]*Bank, error)
	AllTx(ctx context.Context, tx bun.IDB) ([]*Bank, error)

	Remove(ctx context.Context, id uuid.UUID) error
	RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type banks struct {
	repository.Repository[*Bank]
	db *bun.DB
}

var _ Banks = (*banks)(nil)

func NewBanksRepository(db *bun.DB) Banks {
	repo := repository.NewRepository[*Bank](db, repository.ModelHandlers[*Bank]{
		NewRecord: func() *Bank { return &Bank{} },
		GetID: func(b *Bank) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Bank, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &banks{
		Repository: repo,
		db:         db,
	}
}

func (r *banks) Insert(ctx context.Context, bank *Bank) (*Bank, error) {
	return r.InsertTx(ctx, r.db, bank)
}

func (r *banks) InsertTx(ctx context.Context, tx bun.IDB, bank *Bank) (*Bank, error) {
	if bank != nil && bank.ID == uuid.Nil {
		bank.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, bank)
}

func (r *banks) All(ctx context.Context) ([]*Bank, error) {
	return r.AllTx(ctx, r.db)
}

func (r *banks) AllTx(ctx context.Context, tx bun.IDB) ([]*Bank, error) {
	records := []*Bank{}
	err := tx.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *banks) Remove(ctx context.Context, id uuid.UUID) error {
	return r.RemoveTx(ctx, r.db, id)
}

func (r *banks) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Bank)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

// Categories stores the shared transaction category reference rows
type Categories interface {
	repository.Repository[*TransactionCategory]

	Insert(ctx context.Context, cat *TransactionCategory) (*TransactionCategory, error)
	InsertTx(ctx context.Context, tx bun.IDB, cat *TransactionCategory) (*TransactionCategory, error)

	All(ctx context.Context) ([]*TransactionCategory, error)
	AllTx(ctx context.Context, tx bun.IDB) ([]*TransactionCategory, error)

	Remove(ctx context.Context, id uuid.UUID) error
	RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type categories struct {
	repository.Repository[*TransactionCategory]
	db *bun.DB
}

var _ Categories = (*categories)(nil)

func NewCategoriesRepository(db *bun.DB) Categories {
	repo := repository.NewRepository[*TransactionCategory](db, repository.ModelHandlers[*TransactionCategory]{
		NewRecord: func() *TransactionCategory { return &TransactionCategory{} },
		GetID: func(c *TransactionCategory) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *TransactionCategory, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &categories{
		Repository: repo,
		db:         db,
	}
}

func (r *categories) Insert(ctx context.Context, cat *TransactionCategory) (*TransactionCategory, error) {
	return r.InsertTx(ctx, r.db, cat)
}

func (r *categories) InsertTx(ctx context.Context, tx bun.IDB, cat *TransactionCategory) (*TransactionCategory, error) {
	if cat != nil && cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, cat)
}

func (r *categories) All(ctx context.Context) ([]*TransactionCategory, error) {
	return r.AllTx(ctx, r.db)
}

func (r *categories) AllTx(ctx context.Context, tx bun.IDB) ([]*TransactionCategory, error) {
	records := []*TransactionCategory{}
	err := tx.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *categories) Remove(ctx context.Context, id uuid.UUID) error {
	return r.RemoveTx(ctx, r.db, id)
}

func (r *categories) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*TransactionCategory)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
