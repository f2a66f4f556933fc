package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-fintrack"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// BaseConfig is the application configuration, loaded from config files and
// FINTRACK_ prefixed environment variables.
type BaseConfig struct {
	Debug  bool         `json:"debug" yaml:"debug"`
	Server ServerConfig `json:"server" yaml:"server"`
	Auth   AuthConfig   `json:"auth" yaml:"auth"`
	DB     DBConfig     `json:"database" yaml:"database"`
}

type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
}

type AuthConfig struct {
	SigningKey            string `json:"signing_key" yaml:"signing_key"`
	AccessTokenTTLMinutes int    `json:"access_token_ttl_minutes" yaml:"access_token_ttl_minutes"`
	RefreshTokenTTLDays   int    `json:"refresh_token_ttl_days" yaml:"refresh_token_ttl_days"`
}

type DBConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	URL    string `json:"url" yaml:"url"`
}

func (c *BaseConfig) Validate() error {
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required", errors.CategoryValidation)
	}
	if c.DB.URL == "" {
		return errors.New("database.url is required", errors.CategoryValidation)
	}
	return nil
}

func (c *BaseConfig) GetSigningKey() string { return c.Auth.SigningKey }

func (c *BaseConfig) GetAccessTokenTTLMinutes() int {
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		return 15
	}
	return c.Auth.AccessTokenTTLMinutes
}

func (c *BaseConfig) GetRefreshTokenTTLDays() int {
	if c.Auth.RefreshTokenTTLDays <= 0 {
		return 7
	}
	return c.Auth.RefreshTokenTTLDays
}

func (c *BaseConfig) GetDatabaseURL() string { return c.DB.URL }
func (c *BaseConfig) GetDebug() bool         { return c.Debug }

func (c *BaseConfig) GetAddress() string {
	if c.Server.Address == "" {
		return ":8080"
	}
	return c.Server.Address
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("fintrack"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&BaseConfig{}).
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

	repo := fintrack.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := fintrack.NewTokenService(
		[]byte(conf.GetSigningKey()),
		time.Duration(conf.GetAccessTokenTTLMinutes())*time.Minute,
		time.Duration(conf.GetRefreshTokenTTLDays())*24*time.Hour,
		fintrack.WithTokenLogger(lgr.GetLogger("tokens")),
	)

	auther := fintrack.NewAuther(repo, tokens,
		fintrack.WithAutherLogger(lgr.GetLogger("auth")),
	)

	transactions := fintrack.NewTransactionService(repo,
		fintrack.WithTransactionLogger(lgr.GetLogger("transactions")),
	)

	reference := fintrack.NewReferenceService(repo,
		fintrack.WithReferenceLogger(lgr.GetLogger("reference")),
	)

	analytics, err := fintrack.NewAnalytics(db,
		fintrack.WithAnalyticsLogger(lgr.GetLogger("analytics")),
	)
	if err != nil {
		lgr.Error("failed to initialize analytics", "error", err)
		os.Exit(1)
	}

	controller := fintrack.NewHTTPController(
		fintrack.WithControllerLogger(lgr.GetLogger("http")),
		fintrack.WithControllerAuther(auther),
		fintrack.WithControllerTokens(tokens),
		fintrack.WithControllerTransactions(transactions),
		fintrack.WithControllerReference(reference),
		fintrack.WithControllerAnalytics(analytics),
	)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:           "fintrack",
			UnescapePath:      true,
			EnablePrintRoutes: conf.GetDebug(),
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	controller.RegisterRoutes(srv.Router().Group("/api/v1"))

	lgr.Info("listening", "address", conf.GetAddress())

	srv.Serve(conf.GetAddress())

	waitExitSignal()
}

func openDatabase(conf *BaseConfig) (*bun.DB, error) {
	if conf.DB.Driver == "sqlite" {
		sqldb, err := sql.Open(sqliteshim.ShimName, conf.GetDatabaseURL())
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.GetDatabaseURL())))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func waitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
