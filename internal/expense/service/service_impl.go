package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfactory/bookkeeper/internal/expense/domain"
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
		log:   p.Log.Named("expense.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.UpsertExpenseRequest) (domain.Expense, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if req.Amount.Sign() <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	expense := domain.Expense{
		ID:          s.genID.Generate(),
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}

	return expense, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpsertExpenseRequest) (domain.Expense, error) {
	expenseID, err := s.parseID(id)
	if err != nil {
		return domain.Expense{}, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if req.Amount.Sign() <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}

	existing, err := s.repo.FindByID(ctx, s.db, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}
	if existing == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	existing.Category = category
	existing.Description = strings.TrimSpace(req.Description)
	existing.Amount = req.Amount
	if req.Date != nil {
		existing.Date = req.Date.UTC()
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Expense{}, err
	}

	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	expenseID, err := s.parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, expenseID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, expenseID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Expense, error) {
	expenseID, err := s.parseID(id)
	if err != nil {
		return domain.Expense{}, err
	}

	expense, err := s.repo.FindByID(ctx, s.db, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	filter := domain.ListExpenseFilter{
		Category: strings.TrimSpace(req.Category),
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
		return domain.ListExpenseResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(expense *domain.Expense) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        expense.ID.String(),
			CreatedAt: expense.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}

	resp := domain.ListExpenseResponse{Expenses: expenses}
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
