package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
)

// SaleInput carries everything a caller may set on a sale. Totals and
// status are derived server-side; a client-supplied total is ignored.
type SaleInput struct {
	Client     string
	ProductRef string
	SupplyType string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	AmountPaid decimal.Decimal
	Date       *time.Time
}

type RecordDebtPaymentRequest struct {
	DebtID string
	Amount decimal.Decimal
}

type ListSaleRequest struct {
	PageToken string
	PageSize  int32
	Client    string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListSaleResponse struct {
	pagination.PageInfo
	Sales []Sale `json:"sales"`
}

// Service keeps a sale and its linked debt mutually consistent. Every
// operation that touches both records runs as one database
// transaction; a failure leaves neither side changed.
type Service interface {
	Create(context.Context, SaleInput) (Sale, error)
	Update(ctx context.Context, id string, input SaleInput) (Sale, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Sale, error)
	List(context.Context, ListSaleRequest) (ListSaleResponse, error)
	RecordDebtPayment(context.Context, RecordDebtPaymentRequest) error
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidClient     = errors.New("invalid_client")
	ErrInvalidProductRef = errors.New("invalid_product_ref")
	ErrInvalidAmountPaid = errors.New("invalid_amount_paid")
	ErrOverpayment       = errors.New("overpayment")
	ErrNotFound          = errors.New("not_found")
)
