// Package domain contains persistence models for the debt ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Kind discriminates how a debt entered the ledger.
type Kind string

const (
	// KindStandalone debts are entered and settled directly by the user.
	KindStandalone Kind = "standalone"
	// KindSale debts mirror the remaining balance of an under-paid sale
	// and are owned by the sale reconciliation service.
	KindSale Kind = "sale"
)

// Debt is an outstanding client balance. Amount is the remaining
// balance owed, mutated in place as payments are recorded; the row is
// removed the moment it reaches exactly zero.
type Debt struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Client    string            `gorm:"not null" json:"client"`
	Kind      Kind              `gorm:"type:text;not null;default:'standalone'" json:"kind"`
	SaleID    *snowflake.ID     `gorm:"uniqueIndex:ux_debts_sale_id" json:"sale_id,omitempty"`
	Amount    decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Debt) TableName() string { return "debts" }

// LinkedSaleID returns the mirrored sale's ID when the debt is
// sale-linked.
func (d Debt) LinkedSaleID() (snowflake.ID, bool) {
	if d.Kind != KindSale || d.SaleID == nil {
		return 0, false
	}
	return *d.SaleID, true
}
