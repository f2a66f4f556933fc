package fintrack

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TransactionService owns the transaction lifecycle: create, owner-scoped
// reads and listings, guarded partial updates, and soft deletes.
type TransactionService struct {
	repo   RepositoryManager
	logger Logger
}

// TransactionServiceOption customizes a TransactionService
type TransactionServiceOption func(*TransactionService)

// WithTransactionLogger overrides the service logger
func WithTransactionLogger(logger Logger) TransactionServiceOption {
	return func(s *TransactionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTransactionService creates a new TransactionService instance
func NewTransactionService(repo RepositoryManager, opts ...TransactionServiceOption) *TransactionService {
	s := &TransactionService{
		repo:   repo,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Create validates and stores a new transaction owned by the actor. The
// owner is always the actor; a user_id in the payload is ignored.
func (s *TransactionService) Create(ctx context.Context, actor *User, trx *Transaction) (*Transaction, error) {
	trx.UserID = actor.ID
	trx.EnsureStatus()

	if err := validateTransaction(trx); err != nil {
		return nil, err
	}

	created, err := s.repo.Transactions().Insert(ctx, trx)
	if err != nil {
		return nil, translateTransactionConstraint(err)
	}

	s.logger.Info("created transaction", "id", created.ID, "user", actor.ID)

	return created, nil
}

// Get loads a transaction the actor is allowed to see
func (s *TransactionService) Get(ctx context.Context, actor *User, id uuid.UUID) (*Transaction, error) {
	trx, err := s.repo.Transactions().GetOwned(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin && !trx.IsOwnedBy(actor) {
		return nil, ErrForbidden
	}

	return trx, nil
}

// List returns the actor's transactions plus the unpaginated total. Admins
// may list another user's transactions by setting filters.UserID.
func (s *TransactionService) List(ctx context.Context, actor *User, filters TransactionFilters) ([]*Transaction, int, error) {
	if filters.UserID == uuid.Nil || !actor.IsAdmin {
		filters.UserID = actor.ID
	}
	return s.repo.Transactions().Search(ctx, filters)
}

// Update applies a partial update after the guard clears it. The load and
// write share a transaction so a concurrent status change cannot slip a
// locked record past the check.
func (s *TransactionService) Update(ctx context.Context, actor *User, id uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *Transaction

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		trx, err := s.repo.Transactions().GetOwnedTx(ctx, tx, id)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		guard := NewTransactionGuard(trx, actor)
		if err := guard.EnsureEditable(patch.Fields()); err != nil {
			return err
		}

		patch.Apply(trx)

		updated, err = s.repo.Transactions().UpdateTx(ctx, tx, trx)
		return translateTransactionConstraint(err)
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("updated transaction", "id", id, "fields", patch.Fields())

	return updated, nil
}

// Delete soft-deletes a transaction by moving it to DELETED. Records in a
// locked status cannot be deleted; deleting twice is a no-op.
func (s *TransactionService) Delete(ctx context.Context, actor *User, id uuid.UUID) error {
	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		trx, err := s.repo.Transactions().GetOwnedTx(ctx, tx, id)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		guard := NewTransactionGuard(trx, actor)
		if err := guard.EnsureDeletable(); err != nil {
			return err
		}

		if trx.Status == StatusDeleted {
			return nil
		}

		trx.Status = StatusDeleted

		_, err = s.repo.Transactions().UpdateTx(ctx, tx, trx)
		return err
	})

	if err != nil {
		return err
	}

	s.logger.Info("deleted transaction", "id", id)

	return nil
}

// validateTransaction checks a complete record before it is stored
func validateTransaction(trx *Transaction) error {
	if !trx.PartyType.Valid() {
		return NewValidationError("party_type is not valid")
	}
	if !trx.TransactionType.Valid() {
		return NewValidationError("transaction_type is not valid")
	}
	if !trx.Status.Valid() {
		return NewValidationError("status is not valid")
	}
	if trx.OccurredAt.IsZero() {
		return NewValidationError("occurred_at is required")
	}
	if trx.Amount.IsNegative() || trx.Amount.IsZero() {
		return NewValidationError("amount must be positive")
	}

	err := validation.ValidateStruct(trx,
		validation.Field(&trx.AccountNumber, validation.Required),
		validation.Field(&trx.RecipientAccountNumber, validation.Required),
		validation.Field(&trx.RecipientINN, validation.Required, INNRule()),
		validation.Field(&trx.RecipientPhone, PhoneRule()),
	)
	return translateOzzoError(err)
}
