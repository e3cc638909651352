package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListDebtFilter struct {
	Client      string
	Kind        Kind
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Repository persists debts. Every method takes the database handle
// explicitly so services can pass a transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, debt *Debt) error
	Update(ctx context.Context, db *gorm.DB, debt *Debt) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteBySaleID(ctx context.Context, db *gorm.DB, saleID snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Debt, error)
	FindBySaleID(ctx context.Context, db *gorm.DB, saleID snowflake.ID) (*Debt, error)
	List(ctx context.Context, db *gorm.DB, filter ListDebtFilter, page pagination.Pagination) ([]*Debt, error)
}
