package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	debtrepo "github.com/smallfactory/bookkeeper/internal/debt/repository"
	debtservice "github.com/smallfactory/bookkeeper/internal/debt/service"
	depositdomain "github.com/smallfactory/bookkeeper/internal/deposit/domain"
	depositrepo "github.com/smallfactory/bookkeeper/internal/deposit/repository"
	depositservice "github.com/smallfactory/bookkeeper/internal/deposit/service"
	expensedomain "github.com/smallfactory/bookkeeper/internal/expense/domain"
	expenserepo "github.com/smallfactory/bookkeeper/internal/expense/repository"
	expenseservice "github.com/smallfactory/bookkeeper/internal/expense/service"
	"github.com/smallfactory/bookkeeper/internal/report/domain"
	saledomain "github.com/smallfactory/bookkeeper/internal/sale/domain"
	salerepo "github.com/smallfactory/bookkeeper/internal/sale/repository"
	saleservice "github.com/smallfactory/bookkeeper/internal/sale/service"
	"github.com/smallfactory/bookkeeper/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestSummary(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&saledomain.Sale{},
		&debtdomain.Debt{},
		&expensedomain.Expense{},
		&depositdomain.Deposit{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	debts := debtservice.New(debtservice.Params{DB: conn, Log: log, GenID: node, Repo: debtrepo.Provide()})
	sales := saleservice.New(saleservice.Params{DB: conn, Log: log, GenID: node, Repo: salerepo.Provide(), Debts: debts})
	expenses := expenseservice.New(expenseservice.Params{DB: conn, Log: log, GenID: node, Repo: expenserepo.Provide()})
	deposits := depositservice.New(depositservice.Params{DB: conn, Log: log, GenID: node, Repo: depositrepo.Provide()})
	reports := New(Params{DB: conn, Log: log})

	ctx := context.Background()

	// Sale of 300, 100 collected: 200 outstanding on the sale side.
	_, err = sales.Create(ctx, saledomain.SaleInput{
		Client:     "Acme",
		ProductRef: "cement-50kg",
		Quantity:   3,
		UnitPrice:  dec(t, "100.00"),
		AmountPaid: dec(t, "100.00"),
	})
	require.NoError(t, err)

	// Fully collected sale contributes nothing to outstanding.
	_, err = sales.Create(ctx, saledomain.SaleInput{
		Client:     "Globex",
		ProductRef: "rebar-12mm",
		Quantity:   1,
		UnitPrice:  dec(t, "50.00"),
		AmountPaid: dec(t, "50.00"),
	})
	require.NoError(t, err)

	_, err = debts.CreateStandalone(ctx, debtdomain.CreateStandaloneRequest{Client: "Initech", Amount: dec(t, "80.00")})
	require.NoError(t, err)

	_, err = expenses.Create(ctx, expensedomain.UpsertExpenseRequest{Category: "rent", Amount: dec(t, "120.00")})
	require.NoError(t, err)

	_, err = deposits.Create(ctx, depositdomain.UpsertDepositRequest{BankName: "First National", Amount: dec(t, "90.00")})
	require.NoError(t, err)

	summary, err := reports.Summary(ctx, domain.SummaryRequest{})
	require.NoError(t, err)

	assert.True(t, summary.GrossSales.Equal(dec(t, "350.00")), "gross %s", summary.GrossSales)
	assert.True(t, summary.AmountCollected.Equal(dec(t, "150.00")), "collected %s", summary.AmountCollected)
	assert.EqualValues(t, 2, summary.SalesCount)
	assert.True(t, summary.OutstandingSales.Equal(dec(t, "200.00")), "outstanding sales %s", summary.OutstandingSales)
	assert.True(t, summary.OutstandingManual.Equal(dec(t, "80.00")), "outstanding manual %s", summary.OutstandingManual)
	assert.True(t, summary.TotalExpenses.Equal(dec(t, "120.00")))
	assert.True(t, summary.TotalDeposits.Equal(dec(t, "90.00")))
	assert.True(t, summary.NetCash.Equal(dec(t, "30.00")), "net cash %s", summary.NetCash)
}
