package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/internal/money"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListSaleFilter struct {
	Client   string
	Status   money.Status
	DateFrom *time.Time
	DateTo   *time.Time
}

// Repository persists sales. Every method takes the database handle
// explicitly so services can pass a transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sale *Sale) error
	Update(ctx context.Context, db *gorm.DB, sale *Sale) error
	UpdatePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, amountPaid decimal.Decimal, status money.Status, updatedAt time.Time) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sale, error)
	List(ctx context.Context, db *gorm.DB, filter ListSaleFilter, page pagination.Pagination) ([]*Sale, error)
}
