package fintrack_test

import (
	"context"
	"testing"

	fintrack "github.com/goliatone/go-fintrack"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceServiceBanks(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	service := fintrack.NewReferenceService(repo)

	t.Run("creates and lists banks ordered by name", func(t *testing.T) {
		_, err := service.CreateBank(ctx, "Zenith Bank")
		require.NoError(t, err)

		_, err = service.CreateBank(ctx, "  Apex Bank  ")
		require.NoError(t, err)

		banks, err := service.ListBanks(ctx)
		require.NoError(t, err)
		require.Len(t, banks, 2)
		assert.Equal(t, "Apex Bank", banks[0].Name)
		assert.Equal(t, "Zenith Bank", banks[1].Name)
	})

	t.Run("duplicate name is refused", func(t *testing.T) {
		_, err := service.CreateBank(ctx, "Apex Bank")
		assert.ErrorIs(t, err, fintrack.ErrNameNotUnique)
	})

	t.Run("blank name is refused", func(t *testing.T) {
		_, err := service.CreateBank(ctx, "   ")
		assert.Error(t, err)
	})

	t.Run("renames a bank", func(t *testing.T) {
		bank, err := service.CreateBank(ctx, "Old Name")
		require.NoError(t, err)

		renamed, err := service.RenameBank(ctx, bank.ID, "New Name")
		require.NoError(t, err)
		assert.Equal(t, "New Name", renamed.Name)

		reloaded, err := service.GetBank(ctx, bank.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Name", reloaded.Name)
	})

	t.Run("renaming onto a taken name is refused", func(t *testing.T) {
		bank, err := service.CreateBank(ctx, "Taken Source")
		require.NoError(t, err)

		_, err = service.RenameBank(ctx, bank.ID, "Apex Bank")
		assert.ErrorIs(t, err, fintrack.ErrNameNotUnique)
	})

	t.Run("deletes an unused bank", func(t *testing.T) {
		bank, err := service.CreateBank(ctx, "Ephemeral")
		require.NoError(t, err)

		require.NoError(t, service.DeleteBank(ctx, bank.ID))

		_, err = service.GetBank(ctx, bank.ID)
		assert.ErrorIs(t, err, fintrack.ErrNotFound)
	})

	t.Run("deleting an unknown bank fails with not found", func(t *testing.T) {
		assert.ErrorIs(t, service.DeleteBank(ctx, uuid.New()), fintrack.ErrNotFound)
	})
}

func TestReferenceServiceCategories(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	service := fintrack.NewReferenceService(repo)

	t.Run("create, rename, delete", func(t *testing.T) {
		cat, err := service.CreateCategory(ctx, "utilities")
		require.NoError(t, err)

		renamed, err := service.RenameCategory(ctx, cat.ID, "household")
		require.NoError(t, err)
		assert.Equal(t, "household", renamed.Name)

		require.NoError(t, service.DeleteCategory(ctx, cat.ID))
		_, err = service.GetCategory(ctx, cat.ID)
		assert.ErrorIs(t, err, fintrack.ErrNotFound)
	})

	t.Run("duplicate name is refused", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, "travel")
		require.NoError(t, err)

		_, err = service.CreateCategory(ctx, "travel")
		assert.ErrorIs(t, err, fintrack.ErrNameNotUnique)
	})
}

func TestReferenceServiceDeleteReferenced(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	reference := fintrack.NewReferenceService(repo)
	transactions := fintrack.NewTransactionService(repo)

	ref := seedReferenceData(t, repo)
	owner := seedUser(t, repo, "owner", false)

	_, err := transactions.Create(ctx, owner, newTransaction(ref))
	require.NoError(t, err)

	t.Run("a bank referenced by transactions cannot be deleted", func(t *testing.T) {
		err := reference.DeleteBank(ctx, ref.senderBank.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, fintrack.ErrNotFound)
	})

	t.Run("a category referenced by transactions cannot be deleted", func(t *testing.T) {
		err := reference.DeleteCategory(ctx, ref.category.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, fintrack.ErrNotFound)
	})
}
