package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	debtrepo "github.com/smallfactory/bookkeeper/internal/debt/repository"
	debtservice "github.com/smallfactory/bookkeeper/internal/debt/service"
	"github.com/smallfactory/bookkeeper/internal/money"
	"github.com/smallfactory/bookkeeper/internal/sale/domain"
	"github.com/smallfactory/bookkeeper/internal/sale/repository"
	"github.com/smallfactory/bookkeeper/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	conn  *gorm.DB
	sales domain.Service
	debts debtdomain.Service
	node  *snowflake.Node
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Sale{}, &debtdomain.Debt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	debts := debtservice.New(debtservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  debtrepo.Provide(),
	})
	sales := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Debts: debts,
	})
	return fixture{conn: conn, sales: sales, debts: debts, node: node}
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

// linkedDebt returns the debt mirroring the sale, or nil when none exists.
func (f fixture) linkedDebt(t *testing.T, saleID snowflake.ID) *debtdomain.Debt {
	t.Helper()
	debt, err := debtrepo.Provide().FindBySaleID(context.Background(), f.conn, saleID)
	require.NoError(t, err)
	return debt
}

func (f fixture) countSales(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Table("sales").Count(&count).Error)
	return count
}

func TestCreatePartialSaleMirrorsDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.sales.Create(ctx, domain.SaleInput{
		Client:     "Acme Traders",
		ProductRef: "cement-50kg",
		Quantity:   3,
		UnitPrice:  dec(t, "100.00"),
		Discount:   dec(t, "50.00"),
		AmountPaid: dec(t, "100.00"),
	})
	require.NoError(t, err)

	assert.True(t, sale.TotalAmount.Equal(dec(t, "250.00")))
	assert.Equal(t, money.StatusPartial, sale.PaymentStatus)
	assert.True(t, sale.Remaining().Equal(dec(t, "150.00")))

	debt := f.linkedDebt(t, sale.ID)
	require.NotNil(t, debt)
	assert.Equal(t, debtdomain.KindSale, debt.Kind)
	assert.Equal(t, sale.Client, debt.Client)
	assert.True(t, debt.Amount.Equal(dec(t, "150.00")))
}

func TestCreateFullyPaidSaleHasNoDebt(t *testing.T) {
	f := newFixture(t)

	sale, err := f.sales.Create(context.Background(), domain.SaleInput{
		Client:     "Acme",
		ProductRef: "rebar-12mm",
		Quantity:   2,
		UnitPrice:  dec(t, "75.00"),
		AmountPaid: dec(t, "150.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, money.StatusPaid, sale.PaymentStatus)
	assert.Nil(t, f.linkedDebt(t, sale.ID))
}

func TestCreateFullyDiscountedSaleIsPaid(t *testing.T) {
	f := newFixture(t)

	sale, err := f.sales.Create(context.Background(), domain.SaleInput{
		Client:     "Acme",
		ProductRef: "sample-pack",
		Quantity:   1,
		UnitPrice:  dec(t, "20.00"),
		Discount:   dec(t, "20.00"),
	})
	require.NoError(t, err)

	assert.True(t, sale.TotalAmount.IsZero())
	assert.Equal(t, money.StatusPaid, sale.PaymentStatus)
	assert.Nil(t, f.linkedDebt(t, sale.ID))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   1,
		UnitPrice:  dec(t, "100.00"),
	}

	tests := []struct {
		name    string
		mutate  func(*domain.SaleInput)
		wantErr error
	}{
		{name: "blank client", mutate: func(in *domain.SaleInput) { in.Client = "   " }, wantErr: domain.ErrInvalidClient},
		{name: "blank product", mutate: func(in *domain.SaleInput) { in.ProductRef = "" }, wantErr: domain.ErrInvalidProductRef},
		{name: "zero quantity", mutate: func(in *domain.SaleInput) { in.Quantity = 0 }, wantErr: money.ErrInvalidQuantity},
		{name: "negative price", mutate: func(in *domain.SaleInput) { in.UnitPrice = dec(t, "-1") }, wantErr: money.ErrInvalidUnitPrice},
		{name: "discount over subtotal", mutate: func(in *domain.SaleInput) { in.Discount = dec(t, "100.01") }, wantErr: money.ErrDiscountExceedsSubtotal},
		{name: "negative paid", mutate: func(in *domain.SaleInput) { in.AmountPaid = dec(t, "-10") }, wantErr: domain.ErrInvalidAmountPaid},
		{name: "overpayment", mutate: func(in *domain.SaleInput) { in.AmountPaid = dec(t, "100.01") }, wantErr: domain.ErrOverpayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			_, err := f.sales.Create(ctx, input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, f.countSales(t))
}

func TestUpdateRecomputesAndReplacesDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.sales.Create(ctx, domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   2,
		UnitPrice:  dec(t, "100.00"),
		AmountPaid: dec(t, "50.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, f.linkedDebt(t, sale.ID))

	updated, err := f.sales.Update(ctx, sale.ID.String(), domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   5,
		UnitPrice:  dec(t, "100.00"),
		AmountPaid: dec(t, "200.00"),
	})
	require.NoError(t, err)

	assert.True(t, updated.TotalAmount.Equal(dec(t, "500.00")))
	assert.Equal(t, money.StatusPartial, updated.PaymentStatus)

	debt := f.linkedDebt(t, sale.ID)
	require.NotNil(t, debt)
	assert.True(t, debt.Amount.Equal(dec(t, "300.00")))
}

func TestUpdateToFullyPaidRemovesDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.sales.Create(ctx, domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   2,
		UnitPrice:  dec(t, "100.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, f.linkedDebt(t, sale.ID))

	_, err = f.sales.Update(ctx, sale.ID.String(), domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   2,
		UnitPrice:  dec(t, "100.00"),
		AmountPaid: dec(t, "200.00"),
	})
	require.NoError(t, err)

	assert.Nil(t, f.linkedDebt(t, sale.ID))
}

func TestUpdateNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.sales.Update(context.Background(), f.node.Generate().String(), domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   1,
		UnitPrice:  dec(t, "10.00"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCascadesToLinkedDebtOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	standalone, err := f.debts.CreateStandalone(ctx, debtdomain.CreateStandaloneRequest{
		Client: "Acme",
		Amount: dec(t, "999.00"),
	})
	require.NoError(t, err)

	sale, err := f.sales.Create(ctx, domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   1,
		UnitPrice:  dec(t, "100.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, f.linkedDebt(t, sale.ID))

	require.NoError(t, f.sales.Delete(ctx, sale.ID.String()))

	_, err = f.sales.GetByID(ctx, sale.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, f.linkedDebt(t, sale.ID))

	// Manually entered debts survive the cascade.
	got, err := f.debts.GetByID(ctx, standalone.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec(t, "999.00")))
}

func TestRecordDebtPaymentSettlesSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.sales.Create(ctx, domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   3,
		UnitPrice:  dec(t, "100.00"),
		AmountPaid: dec(t, "100.00"),
	})
	require.NoError(t, err)
	debt := f.linkedDebt(t, sale.ID)
	require.NotNil(t, debt)

	// Partial payment moves both sides but settles neither.
	err = f.sales.RecordDebtPayment(ctx, domain.RecordDebtPaymentRequest{
		DebtID: debt.ID.String(),
		Amount: dec(t, "50.00"),
	})
	require.NoError(t, err)

	got, err := f.sales.GetByID(ctx, sale.ID.String())
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(dec(t, "150.00")))
	assert.Equal(t, money.StatusPartial, got.PaymentStatus)

	remaining := f.linkedDebt(t, sale.ID)
	require.NotNil(t, remaining)
	assert.True(t, remaining.Amount.Equal(dec(t, "150.00")))

	// Settling the balance flips the sale to paid and removes the debt.
	err = f.sales.RecordDebtPayment(ctx, domain.RecordDebtPaymentRequest{
		DebtID: debt.ID.String(),
		Amount: dec(t, "150.00"),
	})
	require.NoError(t, err)

	got, err = f.sales.GetByID(ctx, sale.ID.String())
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(got.TotalAmount))
	assert.Equal(t, money.StatusPaid, got.PaymentStatus)
	assert.Nil(t, f.linkedDebt(t, sale.ID))
}

func TestRecordDebtPaymentRejectsOverpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.sales.Create(ctx, domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   1,
		UnitPrice:  dec(t, "100.00"),
		AmountPaid: dec(t, "60.00"),
	})
	require.NoError(t, err)
	debt := f.linkedDebt(t, sale.ID)
	require.NotNil(t, debt)

	err = f.sales.RecordDebtPayment(ctx, domain.RecordDebtPaymentRequest{
		DebtID: debt.ID.String(),
		Amount: dec(t, "40.01"),
	})
	assert.ErrorIs(t, err, debtdomain.ErrPaymentExceedsBalance)

	// Nothing moved on either side.
	got, err := f.sales.GetByID(ctx, sale.ID.String())
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(dec(t, "60.00")))

	unchanged := f.linkedDebt(t, sale.ID)
	require.NotNil(t, unchanged)
	assert.True(t, unchanged.Amount.Equal(dec(t, "40.00")))
}

// failingDebts wedges the debt half of the paired write so the test can
// prove the sale half rolls back with it.
type failingDebts struct {
	debtdomain.Service
}

var errDebtWrite = errors.New("debt write failed")

func (failingDebts) UpsertForSale(context.Context, *gorm.DB, snowflake.ID, string, decimal.Decimal) error {
	return errDebtWrite
}

func TestCreateRollsBackWhenDebtWriteFails(t *testing.T) {
	f := newFixture(t)

	broken := New(Params{
		DB:    f.conn,
		Log:   zap.NewNop(),
		GenID: f.node,
		Repo:  repository.Provide(),
		Debts: failingDebts{Service: f.debts},
	})

	_, err := broken.Create(context.Background(), domain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   1,
		UnitPrice:  dec(t, "100.00"),
	})
	assert.ErrorIs(t, err, errDebtWrite)

	// The sale insert happened inside the same transaction and must be gone.
	assert.Zero(t, f.countSales(t))
}
