package fintrack

import (
	"context"
	"io/fs"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Interval is the bucket size for time-series aggregates
type Interval string

const (
	IntervalWeek    Interval = "week"
	IntervalMonth   Interval = "month"
	IntervalQuarter Interval = "quarter"
	IntervalYear    Interval = "year"
)

// Valid reports whether the value is a known interval
func (i Interval) Valid() bool {
	switch i {
	case IntervalWeek, IntervalMonth, IntervalQuarter, IntervalYear:
		return true
	}
	return false
}

// step returns the series step matching the date_trunc unit. `quarter` is not
// a valid interval literal, so it steps by three months.
func (i Interval) step() string {
	switch i {
	case IntervalWeek:
		return "1 week"
	case IntervalMonth:
		return "1 month"
	case IntervalQuarter:
		return "3 months"
	case IntervalYear:
		return "1 year"
	}
	return ""
}

const (
	queryDynamicsByInterval    = "dynamics_by_interval"
	queryDynamicsByType        = "dynamics_by_type"
	queryReceivedSpent         = "received_spent_comparison"
	queryDynamicsByStatus      = "dynamics_by_status"
	queryDynamicsBySenderBanks = "dynamics_by_sender_banks"
	queryDynamicsByRcptBanks   = "dynamics_by_recipient_banks"
	queryDynamicsByCategories  = "dynamics_by_categories"
)

const analyticsDir = "data/sql/analytics"

// analyticsQueryFiles is the explicit query registry: every identifier maps
// to one embedded template, and construction fails if any file is missing.
var analyticsQueryFiles = []struct {
	name string
	file string
}{
	{queryDynamicsByInterval, "dynamics_by_interval.sql"},
	{queryDynamicsByType, "dynamics_by_type.sql"},
	{queryReceivedSpent, "received_spent_comparison.sql"},
	{queryDynamicsByStatus, "dynamics_by_status.sql"},
	{queryDynamicsBySenderBanks, "dynamics_by_sender_banks.sql"},
	{queryDynamicsByRcptBanks, "dynamics_by_recipient_banks.sql"},
	{queryDynamicsByCategories, "dynamics_by_categories.sql"},
}

// DynamicsByIntervalEntry is one bucket of the interval series
type DynamicsByIntervalEntry struct {
	Date  time.Time `bun:"date" json:"date"`
	Count int64     `bun:"count" json:"count"`
}

// DynamicsByInterval is a per-bucket transaction count over a period
type DynamicsByInterval struct {
	StartEnd
	Interval Interval                  `json:"interval"`
	Entries  []DynamicsByIntervalEntry `json:"entries"`
}

// DynamicsByType aggregates one transaction direction over a period
type DynamicsByType struct {
	StartEnd
	TransactionType   TransactionType `json:"transaction_type"`
	TotalTransactions int64           `json:"total_transactions"`
	TotalFunds        decimal.Decimal `json:"total_funds"`
}

// ReceivedSpentComparison compares inbound and outbound funds over a period.
// ReceivedToSpent is zero when nothing was spent.
type ReceivedSpentComparison struct {
	StartEnd
	TotalReceived   decimal.Decimal `json:"total_received"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	ReceivedToSpent decimal.Decimal `json:"received_to_spent"`
}

// DynamicsByStatus counts terminal outcomes over a period
type DynamicsByStatus struct {
	StartEnd
	TotalSuccessfulTransactions int64 `json:"total_successful_transactions"`
	TotalCancelledTransactions  int64 `json:"total_cancelled_transactions"`
}

// BankStatistics aggregates the transactions touching one bank
type BankStatistics struct {
	BankID            uuid.UUID       `bun:"bank_id" json:"bank_id"`
	BankName          string          `bun:"bank_name" json:"bank_name"`
	TotalTransactions int64           `bun:"total_transactions" json:"total_transactions"`
	TotalFunds        decimal.Decimal `bun:"total_funds" json:"total_funds"`
}

// DynamicsByBanks splits bank aggregates by sending and receiving side
type DynamicsByBanks struct {
	StartEnd
	SenderBanks    []BankStatistics `json:"sender_banks"`
	RecipientBanks []BankStatistics `json:"recipient_banks"`
}

// CategoryStatistics aggregates the transactions in one category
type CategoryStatistics struct {
	CategoryID        uuid.UUID       `bun:"category_id" json:"category_id"`
	CategoryName      string          `bun:"category_name" json:"category_name"`
	TotalTransactions int64           `bun:"total_transactions" json:"total_transactions"`
	TotalFunds        decimal.Decimal `bun:"total_funds" json:"total_funds"`
}

// DynamicsByCategories splits category aggregates by direction: spending is
// DEBIT, income is CREDIT.
type DynamicsByCategories struct {
	StartEnd
	SpendingCategories []CategoryStatistics `json:"spending_categories"`
	IncomeCategories   []CategoryStatistics `json:"income_categories"`
}

// Analytics runs the aggregate queries. All results are scoped to one user
// and exclude soft-deleted transactions except the status breakdown, which
// reports on every terminal outcome.
type Analytics struct {
	db      *bun.DB
	queries map[string]string
	logger  Logger
}

// AnalyticsOption customizes an Analytics service
type AnalyticsOption func(*Analytics)

// WithAnalyticsLogger overrides the service logger
func WithAnalyticsLogger(logger Logger) AnalyticsOption {
	return func(a *Analytics) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalytics loads every registered query template up front so a missing
// or misnamed file fails at construction, not first use.
func NewAnalytics(db *bun.DB, opts ...AnalyticsOption) (*Analytics, error) {
	a := &Analytics{
		db:      db,
		queries: make(map[string]string, len(analyticsQueryFiles)),
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	for _, q := range analyticsQueryFiles {
		content, err := fs.ReadFile(analyticsFS, analyticsDir+"/"+q.file)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load analytics query").
				WithMetadata(map[string]any{"query": q.name})
		}
		a.queries[q.name] = string(content)
	}

	return a, nil
}

func (a *Analytics) query(name string) string {
	return a.queries[name]
}

// DynamicsByInterval counts the user's transactions per bucket. Empty
// buckets inside the period are present with a zero count.
func (a *Analytics) DynamicsByInterval(ctx context.Context, user *User, period StartEnd, interval Interval) (*DynamicsByInterval, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !interval.Valid() {
		return nil, NewValidationError("interval is not valid")
	}

	unit := string(interval)
	entries := []DynamicsByIntervalEntry{}

	err := a.db.NewRaw(
		a.query(queryDynamicsByInterval),
		unit, period.Start,
		unit, period.End,
		interval.step(),
		unit, user.ID,
	).Scan(ctx, &entries)
	if err != nil {
		return nil, err
	}

	return &DynamicsByInterval{
		StartEnd: period,
		Interval: interval,
		Entries:  entries,
	}, nil
}

// DynamicsByType aggregates one direction of money movement
func (a *Analytics) DynamicsByType(ctx context.Context, user *User, period StartEnd, ttype TransactionType) (*DynamicsByType, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !ttype.Valid() {
		return nil, NewValidationError("transaction_type is not valid")
	}

	row := struct {
		TotalTransactions int64           `bun:"total_transactions"`
		TotalFunds        decimal.Decimal `bun:"total_funds"`
	}{}

	err := a.db.NewRaw(
		a.query(queryDynamicsByType),
		user.ID, ttype, period.Start, period.End,
	).Scan(ctx, &row)
	if err != nil {
		return nil, err
	}

	return &DynamicsByType{
		StartEnd:          period,
		TransactionType:   ttype,
		TotalTransactions: row.TotalTransactions,
		TotalFunds:        row.TotalFunds,
	}, nil
}

// ReceivedSpentComparison totals inbound against outbound funds
func (a *Analytics) ReceivedSpentComparison(ctx context.Context, user *User, period StartEnd) (*ReceivedSpentComparison, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	row := struct {
		TotalReceived decimal.Decimal `bun:"total_received"`
		TotalSpent    decimal.Decimal `bun:"total_spent"`
	}{}

	err := a.db.NewRaw(
		a.query(queryReceivedSpent),
		user.ID, period.Start, period.End,
	).Scan(ctx, &row)
	if err != nil {
		return nil, err
	}

	ratio := decimal.Zero
	if !row.TotalSpent.IsZero() {
		ratio = row.TotalReceived.DivRound(row.TotalSpent, 5)
	}

	return &ReceivedSpentComparison{
		StartEnd:        period,
		TotalReceived:   row.TotalReceived,
		TotalSpent:      row.TotalSpent,
		ReceivedToSpent: ratio,
	}, nil
}

// DynamicsByStatus counts executed against cancelled transactions
func (a *Analytics) DynamicsByStatus(ctx context.Context, user *User, period StartEnd) (*DynamicsByStatus, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	row := struct {
		TotalSuccessfulTransactions int64 `bun:"total_successful_transactions"`
		TotalCancelledTransactions  int64 `bun:"total_cancelled_transactions"`
	}{}

	err := a.db.NewRaw(
		a.query(queryDynamicsByStatus),
		user.ID, period.Start, period.End,
	).Scan(ctx, &row)
	if err != nil {
		return nil, err
	}

	return &DynamicsByStatus{
		StartEnd:                    period,
		TotalSuccessfulTransactions: row.TotalSuccessfulTransactions,
		TotalCancelledTransactions:  row.TotalCancelledTransactions,
	}, nil
}

// DynamicsByBanks aggregates the user's transactions per bank, split by the
// side of the transfer the bank was on.
func (a *Analytics) DynamicsByBanks(ctx context.Context, user *User, period StartEnd) (*DynamicsByBanks, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	senders := []BankStatistics{}
	err := a.db.NewRaw(
		a.query(queryDynamicsBySenderBanks),
		user.ID, period.Start, period.End,
	).Scan(ctx, &senders)
	if err != nil {
		return nil, err
	}

	recipients := []BankStatistics{}
	err = a.db.NewRaw(
		a.query(queryDynamicsByRcptBanks),
		user.ID, period.Start, period.End,
	).Scan(ctx, &recipients)
	if err != nil {
		return nil, err
	}

	return &DynamicsByBanks{
		StartEnd:       period,
		SenderBanks:    senders,
		RecipientBanks: recipients,
	}, nil
}

// DynamicsByCategories aggregates the user's transactions per category,
// split into spending and income.
func (a *Analytics) DynamicsByCategories(ctx context.Context, user *User, period StartEnd) (*DynamicsByCategories, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	spending := []CategoryStatistics{}
	err := a.db.NewRaw(
		a.query(queryDynamicsByCategories),
		user.ID, TypeDebit, period.Start, period.End,
	).Scan(ctx, &spending)
	if err != nil {
		return nil, err
	}

	income := []CategoryStatistics{}
	err = a.db.NewRaw(
		a.query(queryDynamicsByCategories),
		user.ID, TypeCredit, period.Start, period.End,
	).Scan(ctx, &income)
	if err != nil {
		return nil, err
	}

	return &DynamicsByCategories{
		StartEnd:           period,
		SpendingCategories: spending,
		IncomeCategories:   income,
	}, nil
}
