package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/internal/money"
	"github.com/smallfactory/bookkeeper/internal/sale/domain"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sales (id, client, product_ref, supply_type, quantity, unit_price, discount,
		                    total_amount, amount_paid, payment_status, date, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID,
		sale.Client,
		sale.ProductRef,
		sale.SupplyType,
		sale.Quantity,
		sale.UnitPrice,
		sale.Discount,
		sale.TotalAmount,
		sale.AmountPaid,
		sale.PaymentStatus,
		sale.Date,
		sale.Metadata,
		sale.CreatedAt,
		sale.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sales SET client = ?, product_ref = ?, supply_type = ?, quantity = ?, unit_price = ?,
		                  discount = ?, total_amount = ?, amount_paid = ?, payment_status = ?, date = ?,
		                  updated_at = ?
		 WHERE id = ?`,
		sale.Client,
		sale.ProductRef,
		sale.SupplyType,
		sale.Quantity,
		sale.UnitPrice,
		sale.Discount,
		sale.TotalAmount,
		sale.AmountPaid,
		sale.PaymentStatus,
		sale.Date,
		sale.UpdatedAt,
		sale.ID,
	).Error
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, amountPaid decimal.Decimal, status money.Status, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sales SET amount_paid = ?, payment_status = ?, updated_at = ? WHERE id = ?`,
		amountPaid,
		status,
		updatedAt,
		id,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM sales WHERE id = ?`, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT id, client, product_ref, supply_type, quantity, unit_price, discount,
		        total_amount, amount_paid, payment_status, date, metadata, created_at, updated_at
		 FROM sales WHERE id = ?`,
		id,
	).Scan(&sale).Error
	if err != nil {
		return nil, err
	}
	if sale.ID == 0 {
		return nil, nil
	}
	return &sale, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSaleFilter, page pagination.Pagination) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	stmt := db.WithContext(ctx).Model(&domain.Sale{})
	if filter.Client != "" {
		stmt = stmt.Where("client = ?", filter.Client)
	}
	if filter.Status != "" {
		stmt = stmt.Where("payment_status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("date <= ?", *filter.DateTo)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, cursor.ID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
