package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-fintrack"
	"github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	banksCount        = 10
	categoriesCount   = 10
	usersCount        = 10
	transactionsCount = 200
)

// validINNs are real-format taxpayer ids that pass the checksum
var validINNs = []string{
	"6449013711",
	"3664069397",
	"4205001725",
	"7743880975",
	"300504899258",
	"6447207743",
	"4205036090",
	"4205046123",
	"0660534489",
	"4205060689",
	"3694555299",
	"4205109214",
	"4207003319",
	"4207008719",
	"635277570478",
	"451408304546",
	"079285641150",
	"793970318200",
	"459147066360",
	"722433057002",
	"499918818482",
	"383391302210",
	"9198578814",
}

var bankNames = []string{
	"Alfa Capital",
	"Vostok Credit",
	"Severny Trust",
	"Delta Finance",
	"Uralsib Partners",
	"Gamma Invest",
	"Pervy Gorodskoy",
	"Sibir Commerce",
	"Baltic Reserve",
	"Yuzhny Standard",
}

var categoryNames = []string{
	"salary",
	"groceries",
	"transport",
	"utilities",
	"healthcare",
	"entertainment",
	"education",
	"travel",
	"rent",
	"savings",
}

type SeedConfig struct {
	DB struct {
		Driver string `json:"driver" yaml:"driver"`
		URL    string `json:"url" yaml:"url"`
	} `json:"database" yaml:"database"`
}

func (c *SeedConfig) Validate() error {
	if c.DB.URL == "" {
		return errors.New("database.url is required", errors.CategoryValidation)
	}
	return nil
}

func main() {
	clearOnly := flag.Bool("clear", false, "only clear the database without adding any data")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	if !*yes && !confirm("Database will be flushed. Are you sure?") {
		fmt.Println("Operation aborted.")
		os.Exit(0)
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("seed"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&SeedConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		lgr.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	conf := cfg.Raw()

	db, err := openDatabase(conf)
	if err != nil {
		lgr.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	if err := fintrack.Migrate(ctx, db); err != nil {
		lgr.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, db, *clearOnly); err != nil {
		lgr.Error("seed failed", "error", err)
		os.Exit(1)
	}

	lgr.Info("done")
}

func run(ctx context.Context, db *bun.DB, clearOnly bool) error {
	if err := clearDatabase(ctx, db); err != nil {
		return err
	}

	if clearOnly {
		return nil
	}

	repo := fintrack.NewRepositoryManager(db)
	repo.MustValidate()

	rng := rand.New(rand.NewSource(2))

	banks, err := createBanks(ctx, repo)
	if err != nil {
		return err
	}

	categories, err := createCategories(ctx, repo)
	if err != nil {
		return err
	}

	users, err := createUsers(ctx, repo, rng)
	if err != nil {
		return err
	}

	return createTransactions(ctx, repo, rng, users, banks, categories)
}

func clearDatabase(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*fintrack.Transaction)(nil),
		(*fintrack.User)(nil),
		(*fintrack.TransactionCategory)(nil),
		(*fintrack.Bank)(nil),
	} {
		if _, err := db.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func createBanks(ctx context.Context, repo fintrack.RepositoryManager) ([]*fintrack.Bank, error) {
	banks := make([]*fintrack.Bank, 0, banksCount)
	for _, name := range bankNames {
		bank, err := repo.Banks().Insert(ctx, &fintrack.Bank{Name: name})
		if err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	return banks, nil
}

func createCategories(ctx context.Context, repo fintrack.RepositoryManager) ([]*fintrack.TransactionCategory, error) {
	categories := make([]*fintrack.TransactionCategory, 0, categoriesCount)
	for _, name := range categoryNames {
		cat, err := repo.Categories().Insert(ctx, &fintrack.TransactionCategory{Name: name})
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

func createUsers(ctx context.Context, repo fintrack.RepositoryManager, rng *rand.Rand) ([]*fintrack.User, error) {
	users := make([]*fintrack.User, 0, usersCount)

	for i := 0; i < usersCount-2; i++ {
		username := fmt.Sprintf("user%02d", i+1)
		user, err := createUser(ctx, repo, username, username, rng.Intn(100) < 20)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	admin, err := createUser(ctx, repo, "admin", "admin", true)
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	user, err := createUser(ctx, repo, "user", "user", false)
	if err != nil {
		return nil, err
	}
	users = append(users, user)

	return users, nil
}

func createUser(ctx context.Context, repo fintrack.RepositoryManager, username, password string, isAdmin bool) (*fintrack.User, error) {
	hash, err := fintrack.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return repo.Users().Register(ctx, &fintrack.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	})
}

func createTransactions(
	ctx context.Context,
	repo fintrack.RepositoryManager,
	rng *rand.Rand,
	users []*fintrack.User,
	banks []*fintrack.Bank,
	categories []*fintrack.TransactionCategory,
) error {
	types := []fintrack.TransactionType{fintrack.TypeCredit, fintrack.TypeDebit}
	statuses := []fintrack.TransactionStatus{
		fintrack.StatusNew,
		fintrack.StatusConfirmed,
		fintrack.StatusProcessing,
		fintrack.StatusCancelled,
		fintrack.StatusExecuted,
		fintrack.StatusDeleted,
		fintrack.StatusRefunded,
	}
	parties := []fintrack.PartyType{fintrack.PartyIndividual, fintrack.PartyLegalEntity}

	now := time.Now()

	for i := 0; i < transactionsCount; i++ {
		user := users[rng.Intn(len(users))]
		sender := banks[rng.Intn(len(banks))]
		recipient := banks[rng.Intn(len(banks))]
		for recipient.ID == sender.ID {
			recipient = banks[rng.Intn(len(banks))]
		}
		category := categories[rng.Intn(len(categories))]

		trx := &fintrack.Transaction{
			UserID:                 user.ID,
			PartyType:              parties[rng.Intn(len(parties))],
			OccurredAt:             now.AddDate(0, 0, -rng.Intn(365)),
			TransactionType:        types[rng.Intn(len(types))],
			Comment:                fmt.Sprintf("seed transaction %d", i+1),
			Amount:                 decimal.NewFromInt(int64(100 + rng.Intn(99900))),
			Status:                 statuses[rng.Intn(len(statuses))],
			SenderBankID:           sender.ID,
			AccountNumber:          fmt.Sprintf("%d", 100+rng.Intn(99900)),
			RecipientBankID:        recipient.ID,
			RecipientINN:           validINNs[rng.Intn(len(validINNs))],
			RecipientAccountNumber: fmt.Sprintf("%d", 100+rng.Intn(99900)),
			CategoryID:             category.ID,
			RecipientPhone:         fmt.Sprintf("+79%09d", rng.Intn(1000000000)),
		}
		trx.ID = uuid.New()

		if _, err := repo.Transactions().Insert(ctx, trx); err != nil {
			return err
		}
	}

	return nil
}

func openDatabase(conf *SeedConfig) (*bun.DB, error) {
	if conf.DB.Driver == "sqlite" {
		sqldb, err := sql.Open(sqliteshim.ShimName, conf.DB.URL)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.DB.URL)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func confirm(message string) bool {
	fmt.Printf("\n%s (y/n)\n", message)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y"
}
