package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	assert.NoError(t, err)
	return d
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int64
		unitPrice string
		discount  string
		want      string
		wantErr   error
	}{
		{name: "no discount", quantity: 3, unitPrice: "100.00", discount: "0", want: "300.00"},
		{name: "with discount", quantity: 3, unitPrice: "100.00", discount: "50.00", want: "250.00"},
		{name: "discount consumes subtotal", quantity: 2, unitPrice: "10.00", discount: "20.00", want: "0.00"},
		{name: "fractional price", quantity: 7, unitPrice: "19.99", discount: "0", want: "139.93"},
		{name: "zero quantity", quantity: 0, unitPrice: "100.00", discount: "0", wantErr: ErrInvalidQuantity},
		{name: "negative quantity", quantity: -1, unitPrice: "100.00", discount: "0", wantErr: ErrInvalidQuantity},
		{name: "negative price", quantity: 1, unitPrice: "-1.00", discount: "0", wantErr: ErrInvalidUnitPrice},
		{name: "negative discount", quantity: 1, unitPrice: "100.00", discount: "-5.00", wantErr: ErrInvalidDiscount},
		{name: "discount exceeds subtotal", quantity: 1, unitPrice: "100.00", discount: "100.01", wantErr: ErrDiscountExceedsSubtotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotal(tt.quantity, dec(t, tt.unitPrice), dec(t, tt.discount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(dec(t, tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestComputeRemaining(t *testing.T) {
	remaining := ComputeRemaining(dec(t, "250.00"), dec(t, "100.00"))
	assert.True(t, remaining.Equal(dec(t, "150.00")))

	// Callers must reject overpayment; the arithmetic itself stays honest.
	negative := ComputeRemaining(dec(t, "100.00"), dec(t, "150.00"))
	assert.True(t, negative.IsNegative())
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  Status
	}{
		{name: "nothing paid", total: "100.00", paid: "0", want: StatusUnpaid},
		{name: "partially paid", total: "100.00", paid: "40.00", want: StatusPartial},
		{name: "exactly paid", total: "100.00", paid: "100.00", want: StatusPaid},
		{name: "fully discounted sale", total: "0", paid: "0", want: StatusPaid},
		{name: "cent short", total: "100.00", paid: "99.99", want: StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(dec(t, tt.total), dec(t, tt.paid)))
		})
	}
}
