package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallfactory/bookkeeper/internal/debt/domain"
	"github.com/smallfactory/bookkeeper/pkg/db"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("debt.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateStandalone(ctx context.Context, req domain.CreateStandaloneRequest) (domain.Debt, error) {
	client := strings.TrimSpace(req.Client)
	if client == "" {
		return domain.Debt{}, domain.ErrInvalidClient
	}
	if req.Amount.Sign() <= 0 {
		return domain.Debt{}, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	debt := domain.Debt{
		ID:        s.genID.Generate(),
		Client:    client,
		Kind:      domain.KindStandalone,
		Amount:    req.Amount,
		Notes:     strings.TrimSpace(req.Notes),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &debt); err != nil {
		return domain.Debt{}, err
	}

	return debt, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Debt, error) {
	debtID, err := s.parseID(id)
	if err != nil {
		return domain.Debt{}, err
	}

	debt, err := s.repo.FindByID(ctx, s.db, debtID)
	if err != nil {
		return domain.Debt{}, err
	}
	if debt == nil {
		return domain.Debt{}, domain.ErrNotFound
	}

	return *debt, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDebtRequest) (domain.ListDebtResponse, error) {
	filter := domain.ListDebtFilter{
		Client: strings.TrimSpace(req.Client),
		Kind:   domain.Kind(strings.TrimSpace(req.Kind)),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListDebtResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(debt *domain.Debt) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        debt.ID.String(),
			CreatedAt: debt.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	debts := make([]domain.Debt, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		debts = append(debts, *item)
	}

	resp := domain.ListDebtResponse{Debts: debts}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) DeleteStandalone(ctx context.Context, id string) error {
	debtID, err := s.parseID(id)
	if err != nil {
		return err
	}

	debt, err := s.repo.FindByID(ctx, s.db, debtID)
	if err != nil {
		return err
	}
	if debt == nil {
		return domain.ErrNotFound
	}
	if debt.Kind != domain.KindStandalone {
		return domain.ErrNotStandalone
	}

	return s.repo.Delete(ctx, s.db, debtID)
}

// RecordStandalonePayment settles part or all of a manual debt. Debts
// mirroring a sale must be paid through the sale service so the sale's
// amount_paid moves in the same transaction.
func (s *Service) RecordStandalonePayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.PaymentEffect, error) {
	debtID, err := s.parseID(req.DebtID)
	if err != nil {
		return domain.PaymentEffect{}, err
	}

	var effect domain.PaymentEffect
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		effect, err = s.ApplyPayment(ctx, tx, debtID, req.Amount)
		if err != nil {
			return err
		}
		if effect.SaleID != nil {
			return domain.ErrNotStandalone
		}
		return nil
	})
	if err != nil {
		return domain.PaymentEffect{}, err
	}

	return effect, nil
}

// UpsertForSale reconciles the debt row mirroring a sale: create it if
// the remaining balance is positive and no row exists, update it if one
// does, delete it when the balance is gone. Must run inside the same
// transaction as the sale write.
func (s *Service) UpsertForSale(ctx context.Context, tx *gorm.DB, saleID snowflake.ID, client string, remaining decimal.Decimal) error {
	if remaining.Sign() <= 0 {
		return s.repo.DeleteBySaleID(ctx, tx, saleID)
	}

	existing, err := s.repo.FindBySaleID(ctx, tx, saleID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if existing == nil {
		debt := domain.Debt{
			ID:        s.genID.Generate(),
			Client:    client,
			Kind:      domain.KindSale,
			SaleID:    &saleID,
			Amount:    remaining,
			Metadata:  datatypes.JSONMap{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := s.repo.Insert(ctx, tx, &debt)
		if err != nil && db.IsDuplicateKeyErr(err) {
			// Lost a race on the sale_id unique index; fall through to
			// update the row the other writer created.
			existing, err = s.repo.FindBySaleID(ctx, tx, saleID)
			if err != nil || existing == nil {
				return err
			}
		} else {
			return err
		}
	}

	existing.Client = client
	existing.Amount = remaining
	existing.UpdatedAt = now
	return s.repo.Update(ctx, tx, existing)
}

// DeleteForSale removes the debt linked to a sale, if any. Standalone
// debts are never matched since their sale_id is null.
func (s *Service) DeleteForSale(ctx context.Context, tx *gorm.DB, saleID snowflake.ID) error {
	return s.repo.DeleteBySaleID(ctx, tx, saleID)
}

// ApplyPayment decreases a debt's remaining balance, deleting the row
// when it lands on exactly zero. The linked sale ID (if any) is
// returned so the caller can move the sale's amount_paid in the same
// transaction.
func (s *Service) ApplyPayment(ctx context.Context, tx *gorm.DB, debtID snowflake.ID, amount decimal.Decimal) (domain.PaymentEffect, error) {
	if amount.Sign() <= 0 {
		return domain.PaymentEffect{}, domain.ErrInvalidPayment
	}

	debt, err := s.repo.FindByID(ctx, tx, debtID)
	if err != nil {
		return domain.PaymentEffect{}, err
	}
	if debt == nil {
		return domain.PaymentEffect{}, domain.ErrNotFound
	}
	if amount.GreaterThan(debt.Amount) {
		return domain.PaymentEffect{}, domain.ErrPaymentExceedsBalance
	}

	effect := domain.PaymentEffect{
		Remaining: debt.Amount.Sub(amount),
	}
	if saleID, ok := debt.LinkedSaleID(); ok {
		id := saleID
		effect.SaleID = &id
	}

	if effect.Remaining.IsZero() {
		effect.Settled = true
		if err := s.repo.Delete(ctx, tx, debtID); err != nil {
			return domain.PaymentEffect{}, err
		}
		return effect, nil
	}

	debt.Amount = effect.Remaining
	debt.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, tx, debt); err != nil {
		return domain.PaymentEffect{}, err
	}

	return effect, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
