// Package domain defines the reporting contracts.
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SummaryRequest struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

// Summary aggregates the books for a period. Outstanding figures are
// point-in-time balances, not period movements.
type Summary struct {
	GrossSales        decimal.Decimal `json:"gross_sales"`
	AmountCollected   decimal.Decimal `json:"amount_collected"`
	SalesCount        int64           `json:"sales_count"`
	OutstandingSales  decimal.Decimal `json:"outstanding_sales"`
	OutstandingManual decimal.Decimal `json:"outstanding_manual"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	NetCash           decimal.Decimal `json:"net_cash"`
}

type Service interface {
	Summary(context.Context, SummaryRequest) (Summary, error)
}
