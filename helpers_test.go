package fintrack_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	fintrack "github.com/goliatone/go-fintrack"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	require.NoError(t, fintrack.Migrate(context.Background(), db))

	t.Cleanup(func() { db.Close() })

	return db
}

func setupRepo(t *testing.T) fintrack.RepositoryManager {
	t.Helper()
	repo := fintrack.NewRepositoryManager(setupTestDB(t))
	repo.MustValidate()
	return repo
}

func seedUser(t *testing.T, repo fintrack.RepositoryManager, username string, isAdmin bool) *fintrack.User {
	t.Helper()

	hash, err := fintrack.HashPassword(username + "-password")
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &fintrack.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	})
	require.NoError(t, err)

	return user
}

type referenceData struct {
	senderBank    *fintrack.Bank
	recipientBank *fintrack.Bank
	category      *fintrack.TransactionCategory
}

func seedReferenceData(t *testing.T, repo fintrack.RepositoryManager) referenceData {
	t.Helper()
	ctx := context.Background()

	sender, err := repo.Banks().Insert(ctx, &fintrack.Bank{Name: "Alfa Capital"})
	require.NoError(t, err)

	recipient, err := repo.Banks().Insert(ctx, &fintrack.Bank{Name: "Vostok Credit"})
	require.NoError(t, err)

	category, err := repo.Categories().Insert(ctx, &fintrack.TransactionCategory{Name: "groceries"})
	require.NoError(t, err)

	return referenceData{
		senderBank:    sender,
		recipientBank: recipient,
		category:      category,
	}
}

func newTransaction(ref referenceData) *fintrack.Transaction {
	return &fintrack.Transaction{
		PartyType:              fintrack.PartyIndividual,
		OccurredAt:             time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
		TransactionType:        fintrack.TypeDebit,
		Comment:                "weekly shop",
		Amount:                 decimal.RequireFromString("100.00"),
		SenderBankID:           ref.senderBank.ID,
		AccountNumber:          "40817810",
		RecipientBankID:        ref.recipientBank.ID,
		RecipientINN:           "6449013711",
		RecipientAccountNumber: "40702810",
		CategoryID:             ref.category.ID,
		RecipientPhone:         "+79991234567",
	}
}
