package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("report.service"),
	}
}

type saleAggregates struct {
	GrossSales      decimal.Decimal
	AmountCollected decimal.Decimal
	SalesCount      int64
}

type debtAggregates struct {
	OutstandingSales  decimal.Decimal
	OutstandingManual decimal.Decimal
}

func (s *Service) Summary(ctx context.Context, req domain.SummaryRequest) (domain.Summary, error) {
	dateWhere := "1=1"
	var args []interface{}
	if req.DateFrom != nil {
		dateWhere += " AND date >= ?"
		args = append(args, req.DateFrom.UTC())
	}
	if req.DateTo != nil {
		dateWhere += " AND date <= ?"
		args = append(args, req.DateTo.UTC())
	}

	var sales saleAggregates
	err := s.db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(total_amount), 0) AS gross_sales,
			COALESCE(SUM(amount_paid), 0) AS amount_collected,
			COUNT(*) AS sales_count
		 FROM sales WHERE `+dateWhere,
		args...,
	).Scan(&sales).Error
	if err != nil {
		return domain.Summary{}, err
	}

	var debts debtAggregates
	err = s.db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN kind = 'sale' THEN amount ELSE 0 END), 0) AS outstanding_sales,
			COALESCE(SUM(CASE WHEN kind = 'standalone' THEN amount ELSE 0 END), 0) AS outstanding_manual
		 FROM debts`,
	).Scan(&debts).Error
	if err != nil {
		return domain.Summary{}, err
	}

	var expenses decimal.Decimal
	err = s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE `+dateWhere,
		args...,
	).Scan(&expenses).Error
	if err != nil {
		return domain.Summary{}, err
	}

	var deposits decimal.Decimal
	err = s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE `+dateWhere,
		args...,
	).Scan(&deposits).Error
	if err != nil {
		return domain.Summary{}, err
	}

	return domain.Summary{
		GrossSales:        sales.GrossSales,
		AmountCollected:   sales.AmountCollected,
		SalesCount:        sales.SalesCount,
		OutstandingSales:  debts.OutstandingSales,
		OutstandingManual: debts.OutstandingManual,
		TotalExpenses:     expenses,
		TotalDeposits:     deposits,
		NetCash:           sales.AmountCollected.Sub(expenses),
	}, nil
}
