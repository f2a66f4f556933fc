package fintrack

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ReferenceService manages the shared banks and transaction categories.
// Reads are open to any authenticated user; writes require the admin scope,
// enforced at the route layer.
type ReferenceService struct {
	repo   RepositoryManager
	logger Logger
}

// NewReferenceService creates a new ReferenceService instance
func NewReferenceService(repo RepositoryManager, opts ...ReferenceServiceOption) *ReferenceService {
	s := &ReferenceService{
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

// ReferenceServiceOption customizes a ReferenceService
type ReferenceServiceOption func(*ReferenceService)

// WithReferenceLogger overrides the service logger
func WithReferenceLogger(logger Logger) ReferenceServiceOption {
	return func(s *ReferenceService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func validateReferenceName(name string) error {
	return translateOzzoError(validation.Validate(name,
		validation.Required,
		validation.Length(1, 120),
	))
}

// CreateBank stores a new bank; a duplicate name fails with ErrNameNotUnique
func (s *ReferenceService) CreateBank(ctx context.Context, name string) (*Bank, error) {
	name = strings.TrimSpace(name)
	if err := validateReferenceName(name); err != nil {
		return nil, err
	}

	bank, err := s.repo.Banks().Insert(ctx, &Bank{Name: name})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameNotUnique
		}
		return nil, err
	}

	s.logger.Info("created bank", "id", bank.ID, "name", name)

	return bank, nil
}

// ListBanks returns every bank ordered by name
func (s *ReferenceService) ListBanks(ctx context.Context) ([]*Bank, error) {
	return s.repo.Banks().All(ctx)
}

// GetBank loads one bank by id
func (s *ReferenceService) GetBank(ctx context.Context, id uuid.UUID) (*Bank, error) {
	bank, err := s.repo.Banks().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bank, nil
}

// RenameBank updates a bank's name
func (s *ReferenceService) RenameBank(ctx context.Context, id uuid.UUID, name string) (*Bank, error) {
	name = strings.TrimSpace(name)
	if err := validateReferenceName(name); err != nil {
		return nil, err
	}

	bank, err := s.GetBank(ctx, id)
	if err != nil {
		return nil, err
	}

	bank.Name = name

	updated, err := s.repo.Banks().Update(ctx, bank)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameNotUnique
		}
		return nil, err
	}

	return updated, nil
}

// DeleteBank removes a bank. Banks referenced by transactions cannot be
// removed; the foreign key surfaces as a validation failure.
func (s *ReferenceService) DeleteBank(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Banks().Remove(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return NewValidationError("bank is referenced by transactions")
		}
		return err
	}

	s.logger.Info("deleted bank", "id", id)

	return nil
}

// CreateCategory stores a new category; a duplicate name fails with
// ErrNameNotUnique.
func (s *ReferenceService) CreateCategory(ctx context.Context, name string) (*TransactionCategory, error) {
	name = strings.TrimSpace(name)
	if err := validateReferenceName(name); err != nil {
		return nil, err
	}

	cat, err := s.repo.Categories().Insert(ctx, &TransactionCategory{Name: name})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameNotUnique
		}
		return nil, err
	}

	s.logger.Info("created category", "id", cat.ID, "name", name)

	return cat, nil
}

// ListCategories returns every category ordered by name
func (s *ReferenceService) ListCategories(ctx context.Context) ([]*TransactionCategory, error) {
	return s.repo.Categories().All(ctx)
}

// GetCategory loads one category by id
func (s *ReferenceService) GetCategory(ctx context.Context, id uuid.UUID) (*TransactionCategory, error) {
	cat, err := s.repo.Categories().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cat, nil
}

// RenameCategory updates a category's name
func (s *ReferenceService) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*TransactionCategory, error) {
	name = strings.TrimSpace(name)
	if err := validateReferenceName(name); err != nil {
		return nil, err
	}

	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	cat.Name = name

	updated, err := s.repo.Categories().Update(ctx, cat)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameNotUnique
		}
		return nil, err
	}

	return updated, nil
}

// DeleteCategory removes a category. Categories referenced by transactions
// cannot be removed.
func (s *ReferenceService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Categories().Remove(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return NewValidationError("category is referenced by transactions")
		}
		return err
	}

	s.logger.Info("deleted category", "id", id)

	return nil
}
