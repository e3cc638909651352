// Package domain contains persistence models for sales.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/internal/money"
	"gorm.io/datatypes"
)

// Sale is one transaction with a client: a single product line item,
// the derived total, and payment progress. TotalAmount and
// PaymentStatus are always recomputed from the source fields, never
// edited directly.
type Sale struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	Client        string            `gorm:"not null;index" json:"client"`
	ProductRef    string            `gorm:"not null" json:"product_ref"`
	SupplyType    string            `gorm:"type:text" json:"supply_type,omitempty"`
	Quantity      int64             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"unit_price"`
	Discount      decimal.Decimal   `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	AmountPaid    decimal.Decimal   `gorm:"type:decimal(20,2);not null;default:0" json:"amount_paid"`
	PaymentStatus money.Status      `gorm:"type:text;not null" json:"payment_status"`
	Date          time.Time         `gorm:"not null;index" json:"date"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Sale) TableName() string { return "sales" }

// Remaining is the balance still owed on the sale.
func (s Sale) Remaining() decimal.Decimal {
	return money.ComputeRemaining(s.TotalAmount, s.AmountPaid)
}
