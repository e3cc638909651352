// Package domain contains persistence models for bank deposits.
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

type Deposit struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	BankName  string          `gorm:"not null;index" json:"bank_name"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Deposit) TableName() string { return "deposits" }

type UpsertDepositRequest struct {
	BankName string
	Amount   decimal.Decimal
	Date     *time.Time
	Notes    string
}

type ListDepositRequest struct {
	PageToken string
	PageSize  int32
	BankName  string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListDepositResponse struct {
	pagination.PageInfo
	Deposits []Deposit `json:"deposits"`
}

type ListDepositFilter struct {
	BankName string
	DateFrom *time.Time
	DateTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, deposit *Deposit) error
	Update(ctx context.Context, db *gorm.DB, deposit *Deposit) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Deposit, error)
	List(ctx context.Context, db *gorm.DB, filter ListDepositFilter, page pagination.Pagination) ([]*Deposit, error)
}

type Service interface {
	Create(context.Context, UpsertDepositRequest) (Deposit, error)
	Update(ctx context.Context, id string, req UpsertDepositRequest) (Deposit, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Deposit, error)
	List(context.Context, ListDepositRequest) (ListDepositResponse, error)
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidBank   = errors.New("invalid_bank")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrNotFound      = errors.New("not_found")
)
