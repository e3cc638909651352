package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfactory/bookkeeper/internal/deposit/domain"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, deposit *domain.Deposit) error {
	return db.WithContext(ctx).Create(deposit).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, deposit *domain.Deposit) error {
	return db.WithContext(ctx).Save(deposit).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Deposit{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Deposit, error) {
	var deposit domain.Deposit
	err := db.WithContext(ctx).First(&deposit, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &deposit, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDepositFilter, page pagination.Pagination) ([]*domain.Deposit, error) {
	var deposits []*domain.Deposit
	stmt := db.WithContext(ctx).Model(&domain.Deposit{})
	if filter.BankName != "" {
		stmt = stmt.Where("bank_name = ?", filter.BankName)
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
		Find(&deposits).Error
	if err != nil {
		return nil, err
	}
	return deposits, nil
}
