package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/internal/debt/domain"
	"github.com/smallfactory/bookkeeper/internal/debt/repository"
	"github.com/smallfactory/bookkeeper/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*gorm.DB, domain.Service, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Debt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return conn, svc, node
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestCreateStandalone(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	debt, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		Client: "  Acme Traders  ",
		Amount: dec(t, "500.00"),
		Notes:  "opening balance",
	})
	require.NoError(t, err)
	assert.NotZero(t, debt.ID)
	assert.Equal(t, "Acme Traders", debt.Client)
	assert.Equal(t, domain.KindStandalone, debt.Kind)
	assert.Nil(t, debt.SaleID)
	assert.True(t, debt.Amount.Equal(dec(t, "500.00")))

	got, err := svc.GetByID(ctx, debt.ID.String())
	require.NoError(t, err)
	assert.Equal(t, debt.ID, got.ID)
}

func TestCreateStandaloneValidation(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "   ", Amount: dec(t, "10")})
	assert.ErrorIs(t, err, domain.ErrInvalidClient)

	_, err = svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "Acme", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "Acme", Amount: dec(t, "-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestGetByIDNotFound(t *testing.T) {
	_, svc, node := newTestService(t)

	_, err := svc.GetByID(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestRecordStandalonePayment(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	debt, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "Acme", Amount: dec(t, "300.00")})
	require.NoError(t, err)

	effect, err := svc.RecordStandalonePayment(ctx, domain.RecordPaymentRequest{
		DebtID: debt.ID.String(),
		Amount: dec(t, "100.00"),
	})
	require.NoError(t, err)
	assert.False(t, effect.Settled)
	assert.True(t, effect.Remaining.Equal(dec(t, "200.00")))

	got, err := svc.GetByID(ctx, debt.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec(t, "200.00")))

	// Paying the row down to exactly zero removes it.
	effect, err = svc.RecordStandalonePayment(ctx, domain.RecordPaymentRequest{
		DebtID: debt.ID.String(),
		Amount: dec(t, "200.00"),
	})
	require.NoError(t, err)
	assert.True(t, effect.Settled)
	assert.True(t, effect.Remaining.IsZero())

	_, err = svc.GetByID(ctx, debt.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStandalonePaymentValidation(t *testing.T) {
	_, svc, node := newTestService(t)
	ctx := context.Background()

	debt, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "Acme", Amount: dec(t, "50.00")})
	require.NoError(t, err)

	_, err = svc.RecordStandalonePayment(ctx, domain.RecordPaymentRequest{DebtID: debt.ID.String(), Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	_, err = svc.RecordStandalonePayment(ctx, domain.RecordPaymentRequest{DebtID: debt.ID.String(), Amount: dec(t, "50.01")})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)

	_, err = svc.RecordStandalonePayment(ctx, domain.RecordPaymentRequest{DebtID: node.Generate().String(), Amount: dec(t, "10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The failed attempts must not have moved the balance.
	got, err := svc.GetByID(ctx, debt.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec(t, "50.00")))
}

func TestRecordStandalonePaymentRejectsLinkedDebt(t *testing.T) {
	conn, svc, node := newTestService(t)
	ctx := context.Background()

	saleID := node.Generate()
	linked := domain.Debt{
		ID:        node.Generate(),
		Client:    "Acme",
		Kind:      domain.KindSale,
		SaleID:    &saleID,
		Amount:    dec(t, "120.00"),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repository.Provide().Insert(ctx, conn, &linked))

	_, err := svc.RecordStandalonePayment(ctx, domain.RecordPaymentRequest{
		DebtID: linked.ID.String(),
		Amount: dec(t, "120.00"),
	})
	assert.ErrorIs(t, err, domain.ErrNotStandalone)

	// The rejection rolls the payment back, settled or not.
	got, err := svc.GetByID(ctx, linked.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec(t, "120.00")))
}

func TestDeleteStandalone(t *testing.T) {
	conn, svc, node := newTestService(t)
	ctx := context.Background()

	debt, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "Acme", Amount: dec(t, "75.00")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStandalone(ctx, debt.ID.String()))
	_, err = svc.GetByID(ctx, debt.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	saleID := node.Generate()
	linked := domain.Debt{
		ID:        node.Generate(),
		Client:    "Acme",
		Kind:      domain.KindSale,
		SaleID:    &saleID,
		Amount:    dec(t, "40.00"),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repository.Provide().Insert(ctx, conn, &linked))

	err = svc.DeleteStandalone(ctx, linked.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotStandalone)
}

func TestListFiltersByClientAndKind(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	for _, client := range []string{"Acme", "Acme", "Globex"} {
		_, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: client, Amount: dec(t, "10.00")})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListDebtRequest{Client: "Acme"})
	require.NoError(t, err)
	assert.Len(t, resp.Debts, 2)

	resp, err = svc.List(ctx, domain.ListDebtRequest{Kind: string(domain.KindSale)})
	require.NoError(t, err)
	assert.Empty(t, resp.Debts)
}

func TestListPaginates(t *testing.T) {
	_, svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{Client: "Acme", Amount: dec(t, "10.00")})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListDebtRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Debts, 2)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, domain.ListDebtRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, second.Debts, 2)
	assert.NotEqual(t, first.Debts[0].ID, second.Debts[0].ID)
}
