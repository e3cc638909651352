package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfactory/bookkeeper/internal/deposit/domain"
	"github.com/smallfactory/bookkeeper/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("deposit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.UpsertDepositRequest) (domain.Deposit, error) {
	bank := strings.TrimSpace(req.BankName)
	if bank == "" {
		return domain.Deposit{}, domain.ErrInvalidBank
	}
	if req.Amount.Sign() <= 0 {
		return domain.Deposit{}, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	deposit := domain.Deposit{
		ID:        s.genID.Generate(),
		BankName:  bank,
		Amount:    req.Amount,
		Date:      date,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &deposit); err != nil {
		return domain.Deposit{}, err
	}

	return deposit, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpsertDepositRequest) (domain.Deposit, error) {
	depositID, err := s.parseID(id)
	if err != nil {
		return domain.Deposit{}, err
	}

	bank := strings.TrimSpace(req.BankName)
	if bank == "" {
		return domain.Deposit{}, domain.ErrInvalidBank
	}
	if req.Amount.Sign() <= 0 {
		return domain.Deposit{}, domain.ErrInvalidAmount
	}

	existing, err := s.repo.FindByID(ctx, s.db, depositID)
	if err != nil {
		return domain.Deposit{}, err
	}
	if existing == nil {
		return domain.Deposit{}, domain.ErrNotFound
	}

	existing.BankName = bank
	existing.Amount = req.Amount
	existing.Notes = strings.TrimSpace(req.Notes)
	if req.Date != nil {
		existing.Date = req.Date.UTC()
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Deposit{}, err
	}

	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	depositID, err := s.parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, depositID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, depositID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Deposit, error) {
	depositID, err := s.parseID(id)
	if err != nil {
		return domain.Deposit{}, err
	}

	deposit, err := s.repo.FindByID(ctx, s.db, depositID)
	if err != nil {
		return domain.Deposit{}, err
	}
	if deposit == nil {
		return domain.Deposit{}, domain.ErrNotFound
	}

	return *deposit, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDepositRequest) (domain.ListDepositResponse, error) {
	filter := domain.ListDepositFilter{
		BankName: strings.TrimSpace(req.BankName),
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
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
		return domain.ListDepositResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(deposit *domain.Deposit) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        deposit.ID.String(),
			CreatedAt: deposit.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	deposits := make([]domain.Deposit, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		deposits = append(deposits, *item)
	}

	resp := domain.ListDepositResponse{Deposits: deposits}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
