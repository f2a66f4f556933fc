package fintrack

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the API over JSON routes
type HTTPController struct {
	Logger       Logger
	Auther       *Auther
	Tokens       *TokenService
	Transactions *TransactionService
	Reference    *ReferenceService
	Analytics    *Analytics
	ErrorHandler router.ErrorHandler
}

// HTTPControllerOption customizes an HTTPController
type HTTPControllerOption func(*HTTPController) *HTTPController

// WithControllerLogger overrides the controller logger
func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerAuther sets the authentication service
func WithControllerAuther(auther *Auther) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Auther = auther
		return c
	}
}

// WithControllerTokens sets the token service
func WithControllerTokens(tokens *TokenService) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Tokens = tokens
		return c
	}
}

// WithControllerTransactions sets the transaction service
func WithControllerTransactions(svc *TransactionService) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Transactions = svc
		return c
	}
}

// WithControllerReference sets the reference data service
func WithControllerReference(svc *ReferenceService) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Reference = svc
		return c
	}
}

// WithControllerAnalytics sets the analytics service
func WithControllerAnalytics(svc *Analytics) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Analytics = svc
		return c
	}
}

// NewHTTPController creates a new HTTPController instance
func NewHTTPController(opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Logger:       defLogger{},
		ErrorHandler: JSONErrorHandler,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in http controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in http controller...")
	}

	if c.Transactions == nil {
		panic("Missing TransactionService in http controller...")
	}

	if c.Reference == nil {
		panic("Missing ReferenceService in http controller...")
	}

	if c.Analytics == nil {
		panic("Missing Analytics in http controller...")
	}

	return c
}

// RegisterRoutes registers every API route on the given group
func (a *HTTPController) RegisterRoutes(group RouteRegistrar) {
	authed := RequireAuth(a.Tokens, a.ErrorHandler)
	admin := RequireAuth(a.Tokens, a.ErrorHandler, ScopeAdmin)

	group.Post("/auth/login", a.Login)
	group.Post("/auth/refresh", a.RefreshToken)

	group.Post("/users/register", a.RegisterUser)
	group.Get("/users/me", a.Me, authed)

	group.Get("/transactions", a.ListTransactions, authed)
	group.Post("/transactions", a.CreateTransaction, authed)
	group.Get("/transactions/:id", a.GetTransaction, authed)
	group.Patch("/transactions/:id", a.UpdateTransaction, authed)
	group.Delete("/transactions/:id", a.DeleteTransaction, authed)

	group.Get("/banks", a.ListBanks, authed)
	group.Post("/banks", a.CreateBank, admin)
	group.Get("/banks/:id", a.GetBank, authed)
	group.Put("/banks/:id", a.RenameBank, admin)
	group.Delete("/banks/:id", a.DeleteBank, admin)

	group.Get("/categories", a.ListCategories, authed)
	group.Post("/categories", a.CreateCategory, admin)
	group.Get("/categories/:id", a.GetCategory, authed)
	group.Put("/categories/:id", a.RenameCategory, admin)
	group.Delete("/categories/:id", a.DeleteCategory, admin)

	group.Get("/analytics/dynamics_by_interval", a.DynamicsByInterval, authed)
	group.Get("/analytics/dynamics_by_type", a.DynamicsByType, authed)
	group.Get("/analytics/received_spent_comparison", a.ReceivedSpentComparison, authed)
	group.Get("/analytics/dynamics_by_status", a.DynamicsByStatus, authed)
	group.Get("/analytics/dynamics_by_banks", a.DynamicsByBanks, authed)
	group.Get("/analytics/dynamics_by_categories", a.DynamicsByCategories, authed)
}

// LoginRequest payload
type LoginRequest struct {
	Username string   `form:"username" json:"username"`
	Password string   `form:"password" json:"password"`
	Scopes   []string `form:"scopes" json:"scopes"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return translateOzzoError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

func (a *HTTPController) Login(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	pair, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password, payload.Scopes)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, pair)
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshRequest) Validate() error {
	return translateOzzoError(validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	))
}

func (a *HTTPController) RefreshToken(ctx router.Context) error {
	payload := new(RefreshRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	pair, err := a.Auther.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, pair)
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return translateOzzoError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 120)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	))
}

func (a *HTTPController) RegisterUser(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	pair, err := a.Auther.Register(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, pair)
}

func (a *HTTPController) Me(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

// TransactionCreateRequest payload
type TransactionCreateRequest struct {
	PartyType              PartyType         `json:"party_type"`
	OccurredAt             time.Time         `json:"occurred_at"`
	TransactionType        TransactionType   `json:"transaction_type"`
	Comment                string            `json:"comment"`
	Amount                 decimal.Decimal   `json:"amount"`
	Status                 TransactionStatus `json:"status"`
	SenderBankID           uuid.UUID         `json:"sender_bank_id"`
	AccountNumber          string            `json:"account_number"`
	RecipientBankID        uuid.UUID         `json:"recipient_bank_id"`
	RecipientINN           string            `json:"recipient_inn"`
	RecipientAccountNumber string            `json:"recipient_account_number"`
	CategoryID             uuid.UUID         `json:"category_id"`
	RecipientPhone         string            `json:"recipient_phone"`
}

func (r TransactionCreateRequest) toModel() *Transaction {
	return &Transaction{
		PartyType:              r.PartyType,
		OccurredAt:             r.OccurredAt,
		TransactionType:        r.TransactionType,
		Comment:                r.Comment,
		Amount:                 r.Amount,
		Status:                 r.Status,
		SenderBankID:           r.SenderBankID,
		AccountNumber:          r.AccountNumber,
		RecipientBankID:        r.RecipientBankID,
		RecipientINN:           r.RecipientINN,
		RecipientAccountNumber: r.RecipientAccountNumber,
		CategoryID:             r.CategoryID,
		RecipientPhone:         r.RecipientPhone,
	}
}

func (a *HTTPController) CreateTransaction(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(TransactionCreateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	created, err := a.Transactions.Create(ctx.Context(), user, payload.toModel())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, created)
}

// TransactionListResponse wraps a page of transactions with the full count
type TransactionListResponse struct {
	Items  []*Transaction `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func (a *HTTPController) ListTransactions(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	filters, err := a.listFilters(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	items, total, err := a.Transactions.List(ctx.Context(), user, filters)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TransactionListResponse{
		Items:  items,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

func (a *HTTPController) GetTransaction(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	trx, err := a.Transactions.Get(ctx.Context(), user, id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, trx)
}

func (a *HTTPController) UpdateTransaction(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	patch, err := bindTransactionPatch(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	updated, err := a.Transactions.Update(ctx.Context(), user, id, patch)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (a *HTTPController) DeleteTransaction(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Transactions.Delete(ctx.Context(), user, id); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusNoContent).SendString("")
}

// NamePayload carries the single name field of reference data
type NamePayload struct {
	Name string `form:"name" json:"name"`
}

// Validate will run validation rules
func (r NamePayload) Validate() error {
	return translateOzzoError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
	))
}

func (a *HTTPController) ListBanks(ctx router.Context) error {
	items, err := a.Reference.ListBanks(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, items)
}

func (a *HTTPController) CreateBank(ctx router.Context) error {
	payload := new(NamePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	bank, err := a.Reference.CreateBank(ctx.Context(), payload.Name)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, bank)
}

func (a *HTTPController) GetBank(ctx router.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	bank, err := a.Reference.GetBank(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, bank)
}

func (a *HTTPController) RenameBank(ctx router.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(NamePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	bank, err := a.Reference.RenameBank(ctx.Context(), id, payload.Name)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, bank)
}

func (a *HTTPController) DeleteBank(ctx router.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Reference.DeleteBank(ctx.Context(), id); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusNoContent).SendString("")
}

func (a *HTTPController) ListCategories(ctx router.Context) error {
	items, err := a.Reference.ListCategories(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, items)
}

func (a *HTTPController) CreateCategory(ctx router.Context) error {
	payload := new(NamePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	cat, err := a.Reference.CreateCategory(ctx.Context(), payload.Name)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, cat)
}

func (a *HTTPController) GetCategory(ctx router.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	cat, err := a.Reference.GetCategory(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, cat)
}

func (a *HTTPController) RenameCategory(ctx router.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(NamePayload)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, NewValidationError("failed to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	cat, err := a.Reference.RenameCategory(ctx.Context(), id, payload.Name)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, cat)
}

func (a *HTTPController) DeleteCategory(ctx router.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Reference.DeleteCategory(ctx.Context(), id); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusNoContent).SendString("")
}

func (a *HTTPController) DynamicsByInterval(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	period, err := periodQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	interval := Interval(ctx.Query("interval", ""))

	result, err := a.Analytics.DynamicsByInterval(ctx.Context(), user, period, interval)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *HTTPController) DynamicsByType(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	period, err := periodQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	ttype := TransactionType(ctx.Query("transaction_type", ""))

	result, err := a.Analytics.DynamicsByType(ctx.Context(), user, period, ttype)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *HTTPController) ReceivedSpentComparison(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	period, err := periodQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	result, err := a.Analytics.ReceivedSpentComparison(ctx.Context(), user, period)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *HTTPController) DynamicsByStatus(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	period, err := periodQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	result, err := a.Analytics.DynamicsByStatus(ctx.Context(), user, period)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *HTTPController) DynamicsByBanks(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	period, err := periodQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	result, err := a.Analytics.DynamicsByBanks(ctx.Context(), user, period)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *HTTPController) DynamicsByCategories(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	period, err := periodQuery(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	result, err := a.Analytics.DynamicsByCategories(ctx.Context(), user, period)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *HTTPController) currentUser(ctx router.Context) (*User, error) {
	claims, err := RouterClaims(ctx)
	if err != nil {
		return nil, err
	}
	return a.Auther.CurrentUser(ctx.Context(), claims)
}

const defaultListLimit = 50

func (a *HTTPController) listFilters(ctx router.Context) (TransactionFilters, error) {
	filters := TransactionFilters{
		Limit: defaultListLimit,
	}

	if raw := ctx.Query("status", ""); raw != "" {
		status := TransactionStatus(raw)
		if !status.Valid() {
			return filters, NewValidationError("status is not valid")
		}
		filters.Status = &status
	}

	if raw := ctx.Query("transaction_type", ""); raw != "" {
		ttype := TransactionType(raw)
		if !ttype.Valid() {
			return filters, NewValidationError("transaction_type is not valid")
		}
		filters.TransactionType = &ttype
	}

	if raw := ctx.Query("party_type", ""); raw != "" {
		ptype := PartyType(raw)
		if !ptype.Valid() {
			return filters, NewValidationError("party_type is not valid")
		}
		filters.PartyType = &ptype
	}

	for name, target := range map[string]**uuid.UUID{
		"category_id":       &filters.CategoryID,
		"sender_bank_id":    &filters.SenderBankID,
		"recipient_bank_id": &filters.RecipientBankID,
	} {
		if raw := ctx.Query(name, ""); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return filters, NewValidationError(name + " must be a valid uuid")
			}
			*target = &id
		}
	}

	if raw := ctx.Query("user_id", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, NewValidationError("user_id must be a valid uuid")
		}
		filters.UserID = id
	}

	if raw := ctx.Query("recipient_inn", ""); raw != "" {
		filters.RecipientINN = &raw
	}

	if raw := ctx.Query("occurred_after", ""); raw != "" {
		at, err := parseTimeValue(raw)
		if err != nil {
			return filters, err
		}
		filters.OccurredAfter = &at
	}

	if raw := ctx.Query("occurred_before", ""); raw != "" {
		at, err := parseTimeValue(raw)
		if err != nil {
			return filters, err
		}
		filters.OccurredBefore = &at
	}

	if raw := ctx.Query("order_by", ""); raw != "" {
		orderBy, err := ParseOrderBy(strings.Split(raw, ","))
		if err != nil {
			return filters, err
		}
		filters.OrderBy = orderBy
	}

	if raw := ctx.Query("limit", ""); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filters, NewValidationError("limit must be a non-negative integer")
		}
		filters.Limit = limit
	}

	if raw := ctx.Query("offset", ""); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filters, NewValidationError("offset must be a non-negative integer")
		}
		filters.Offset = offset
	}

	return filters, nil
}

// bindTransactionPatch decodes the body into the editable-field whitelist.
// Unknown keys are rejected up front so the caller learns exactly which
// field was refused.
func bindTransactionPatch(ctx router.Context) (TransactionPatch, error) {
	patch := TransactionPatch{}

	raw := map[string]json.RawMessage{}
	if err := ctx.Bind(&raw); err != nil {
		return patch, NewValidationError("failed to parse request body")
	}

	for key := range raw {
		if _, err := ParseEditableField(key); err != nil {
			return patch, err
		}
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return patch, NewValidationError("failed to parse request body")
	}

	if err := json.Unmarshal(body, &patch); err != nil {
		return patch, NewValidationError("failed to parse request body")
	}

	return patch, nil
}

func uuidParam(ctx router.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name, ""))
	if err != nil {
		return uuid.Nil, NewValidationError(name + " must be a valid uuid")
	}
	return id, nil
}

func parseTimeValue(raw string) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at, nil
	}
	if at, err := time.Parse("2006-01-02", raw); err == nil {
		return at, nil
	}
	return time.Time{}, NewValidationError("time values must be RFC 3339 or YYYY-MM-DD")
}

func periodQuery(ctx router.Context) (StartEnd, error) {
	period := StartEnd{}

	start := ctx.Query("start", "")
	end := ctx.Query("end", "")
	if start == "" || end == "" {
		return period, NewValidationError("start and end are required")
	}

	at, err := parseTimeValue(start)
	if err != nil {
		return period, err
	}
	period.Start = at

	at, err = parseTimeValue(end)
	if err != nil {
		return period, err
	}
	period.End = at

	return period, nil
}
