package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type CreateStandaloneRequest struct {
	Client string
	Amount decimal.Decimal
	Notes  string
}

type RecordPaymentRequest struct {
	DebtID string
	Amount decimal.Decimal
}

type ListDebtRequest struct {
	PageToken string
	PageSize  int32
	Client    string
	Kind      string
}

type ListDebtResponse struct {
	pagination.PageInfo
	Debts []Debt `json:"debts"`
}

// PaymentEffect reports the outcome of applying a payment to a debt.
type PaymentEffect struct {
	Remaining decimal.Decimal
	Settled   bool
	SaleID    *snowflake.ID
}

// Service is the debt ledger. The tx-scoped methods (UpsertForSale,
// DeleteForSale, ApplyPayment) are the only way sale-linked debts are
// touched; they are composed into the sale service's transactions.
type Service interface {
	CreateStandalone(context.Context, CreateStandaloneRequest) (Debt, error)
	GetByID(ctx context.Context, id string) (Debt, error)
	List(context.Context, ListDebtRequest) (ListDebtResponse, error)
	DeleteStandalone(ctx context.Context, id string) error
	RecordStandalonePayment(context.Context, RecordPaymentRequest) (PaymentEffect, error)

	UpsertForSale(ctx context.Context, tx *gorm.DB, saleID snowflake.ID, client string, remaining decimal.Decimal) error
	DeleteForSale(ctx context.Context, tx *gorm.DB, saleID snowflake.ID) error
	ApplyPayment(ctx context.Context, tx *gorm.DB, debtID snowflake.ID, amount decimal.Decimal) (PaymentEffect, error)
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidClient         = errors.New("invalid_client")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrInvalidPayment        = errors.New("invalid_payment")
	ErrPaymentExceedsBalance = errors.New("payment_exceeds_balance")
	ErrNotFound              = errors.New("not_found")
	ErrNotStandalone         = errors.New("not_standalone")
)
