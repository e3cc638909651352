// Package money holds the pure monetary arithmetic shared by the
// bookkeeping services. All amounts are exact decimals; comparisons
// never go through binary floating point.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Status classifies how much of a sale has been collected.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

var (
	ErrInvalidQuantity         = errors.New("invalid_quantity")
	ErrInvalidUnitPrice        = errors.New("invalid_unit_price")
	ErrInvalidDiscount         = errors.New("invalid_discount")
	ErrDiscountExceedsSubtotal = errors.New("discount_exceeds_subtotal")
)

// ComputeTotal returns quantity*unitPrice - discount for a line item.
// The discount may consume the whole subtotal but never exceed it.
func ComputeTotal(quantity int64, unitPrice, discount decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrInvalidUnitPrice
	}
	if discount.IsNegative() {
		return decimal.Zero, ErrInvalidDiscount
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(quantity))
	if discount.GreaterThan(subtotal) {
		return decimal.Zero, ErrDiscountExceedsSubtotal
	}

	return subtotal.Sub(discount), nil
}

// ComputeRemaining returns total - amountPaid. The result may be
// negative; callers must reject an overpayment before persisting.
func ComputeRemaining(total, amountPaid decimal.Decimal) decimal.Decimal {
	return total.Sub(amountPaid)
}

// DeriveStatus classifies payment progress. A fully discounted sale
// (total zero, nothing paid) counts as paid.
func DeriveStatus(total, amountPaid decimal.Decimal) Status {
	if amountPaid.Cmp(total) >= 0 {
		return StatusPaid
	}
	if amountPaid.IsZero() {
		return StatusUnpaid
	}
	return StatusPartial
}
