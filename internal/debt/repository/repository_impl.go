package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfactory/bookkeeper/internal/debt/domain"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, debt *domain.Debt) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO debts (id, client, kind, sale_id, amount, notes, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.ID,
		debt.Client,
		debt.Kind,
		debt.SaleID,
		debt.Amount,
		debt.Notes,
		debt.Metadata,
		debt.CreatedAt,
		debt.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, debt *domain.Debt) error {
	return db.WithContext(ctx).Exec(
		`UPDATE debts SET client = ?, amount = ?, notes = ?, updated_at = ? WHERE id = ?`,
		debt.Client,
		debt.Amount,
		debt.Notes,
		debt.UpdatedAt,
		debt.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM debts WHERE id = ?`, id).Error
}

func (r *repo) DeleteBySaleID(ctx context.Context, db *gorm.DB, saleID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM debts WHERE sale_id = ?`, saleID).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Debt, error) {
	var debt domain.Debt
	err := db.WithContext(ctx).Raw(
		`SELECT id, client, kind, sale_id, amount, notes, metadata, created_at, updated_at
		 FROM debts WHERE id = ?`,
		id,
	).Scan(&debt).Error
	if err != nil {
		return nil, err
	}
	if debt.ID == 0 {
		return nil, nil
	}
	return &debt, nil
}

func (r *repo) FindBySaleID(ctx context.Context, db *gorm.DB, saleID snowflake.ID) (*domain.Debt, error) {
	var debt domain.Debt
	err := db.WithContext(ctx).Raw(
		`SELECT id, client, kind, sale_id, amount, notes, metadata, created_at, updated_at
		 FROM debts WHERE sale_id = ?`,
		saleID,
	).Scan(&debt).Error
	if err != nil {
		return nil, err
	}
	if debt.ID == 0 {
		return nil, nil
	}
	return &debt, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDebtFilter, page pagination.Pagination) ([]*domain.Debt, error) {
	var debts []*domain.Debt
	stmt := db.WithContext(ctx).Model(&domain.Debt{})
	if filter.Client != "" {
		stmt = stmt.Where("client = ?", filter.Client)
	}
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
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
		Find(&debts).Error
	if err != nil {
		return nil, err
	}
	return debts, nil
}
