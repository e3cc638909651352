// Package domain contains persistence models for expenses.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type Expense struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	Category    string          `gorm:"not null;index" json:"category"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }

type UpsertExpenseRequest struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	Date        *time.Time
}

type ListExpenseRequest struct {
	PageToken string
	PageSize  int32
	Category  string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

type ListExpenseFilter struct {
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	Update(ctx context.Context, db *gorm.DB, expense *Expense) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, db *gorm.DB, filter ListExpenseFilter, page pagination.Pagination) ([]*Expense, error)
}

type Service interface {
	Create(context.Context, UpsertExpenseRequest) (Expense, error)
	Update(ctx context.Context, id string, req UpsertExpenseRequest) (Expense, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Expense, error)
	List(context.Context, ListExpenseRequest) (ListExpenseResponse, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrNotFound        = errors.New("not_found")
)
