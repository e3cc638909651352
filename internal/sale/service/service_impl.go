package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	"github.com/smallfactory/bookkeeper/internal/money"
	"github.com/smallfactory/bookkeeper/internal/sale/domain"
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
	Debts debtdomain.Service
}

// Service is the sale reconciliation engine: it owns every mutation of
// a sale and keeps the linked debt in lockstep inside one transaction.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	debts debtdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sale.service"),
		genID: p.GenID,
		repo:  p.Repo,
		debts: p.Debts,
	}
}

// validated holds the derived fields of a checked SaleInput.
type validated struct {
	client     string
	productRef string
	supplyType string
	total      decimal.Decimal
	paid       decimal.Decimal
	status     money.Status
	date       time.Time
}

func (s *Service) validate(input domain.SaleInput) (validated, error) {
	client := strings.TrimSpace(input.Client)
	if client == "" {
		return validated{}, domain.ErrInvalidClient
	}
	productRef := strings.TrimSpace(input.ProductRef)
	if productRef == "" {
		return validated{}, domain.ErrInvalidProductRef
	}

	total, err := money.ComputeTotal(input.Quantity, input.UnitPrice, input.Discount)
	if err != nil {
		return validated{}, err
	}

	paid := input.AmountPaid
	if paid.IsNegative() {
		return validated{}, domain.ErrInvalidAmountPaid
	}
	// Overpayment is a data-entry error; clamping would hide it.
	if paid.GreaterThan(total) {
		return validated{}, domain.ErrOverpayment
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	return validated{
		client:     client,
		productRef: productRef,
		supplyType: strings.TrimSpace(input.SupplyType),
		total:      total,
		paid:       paid,
		status:     money.DeriveStatus(total, paid),
		date:       date,
	}, nil
}

func (s *Service) Create(ctx context.Context, input domain.SaleInput) (domain.Sale, error) {
	v, err := s.validate(input)
	if err != nil {
		return domain.Sale{}, err
	}

	now := time.Now().UTC()
	sale := domain.Sale{
		ID:            s.genID.Generate(),
		Client:        v.client,
		ProductRef:    v.productRef,
		SupplyType:    v.supplyType,
		Quantity:      input.Quantity,
		UnitPrice:     input.UnitPrice,
		Discount:      input.Discount,
		TotalAmount:   v.total,
		AmountPaid:    v.paid,
		PaymentStatus: v.status,
		Date:          v.date,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &sale); err != nil {
			return err
		}
		return s.debts.UpsertForSale(ctx, tx, sale.ID, sale.Client, sale.Remaining())
	})
	if err != nil {
		return domain.Sale{}, err
	}

	s.log.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("client", sale.Client),
		zap.String("total", sale.TotalAmount.String()),
		zap.String("status", string(sale.PaymentStatus)),
	)

	return sale, nil
}

// Update recomputes every derived field from the new line item and
// replaces the linked debt outright rather than patching it: the old
// row is deleted and a fresh one created from the recomputed remaining
// balance, all in one transaction.
func (s *Service) Update(ctx context.Context, id string, input domain.SaleInput) (domain.Sale, error) {
	saleID, err := s.parseID(id)
	if err != nil {
		return domain.Sale{}, err
	}

	v, err := s.validate(input)
	if err != nil {
		return domain.Sale{}, err
	}

	var sale domain.Sale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		sale = *existing
		sale.Client = v.client
		sale.ProductRef = v.productRef
		sale.SupplyType = v.supplyType
		sale.Quantity = input.Quantity
		sale.UnitPrice = input.UnitPrice
		sale.Discount = input.Discount
		sale.TotalAmount = v.total
		sale.AmountPaid = v.paid
		sale.PaymentStatus = v.status
		sale.Date = v.date
		sale.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, tx, &sale); err != nil {
			return err
		}
		if err := s.debts.DeleteForSale(ctx, tx, saleID); err != nil {
			return err
		}
		return s.debts.UpsertForSale(ctx, tx, saleID, sale.Client, sale.Remaining())
	})
	if err != nil {
		return domain.Sale{}, err
	}

	return sale, nil
}

// Delete removes the sale and cascades to its linked debt. Standalone
// debts are untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	saleID, err := s.parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		if err := s.repo.Delete(ctx, tx, saleID); err != nil {
			return err
		}
		return s.debts.DeleteForSale(ctx, tx, saleID)
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Sale, error) {
	saleID, err := s.parseID(id)
	if err != nil {
		return domain.Sale{}, err
	}

	sale, err := s.repo.FindByID(ctx, s.db, saleID)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale == nil {
		return domain.Sale{}, domain.ErrNotFound
	}

	return *sale, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSaleRequest) (domain.ListSaleResponse, error) {
	filter := domain.ListSaleFilter{
		Client:   strings.TrimSpace(req.Client),
		Status:   money.Status(strings.TrimSpace(req.Status)),
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
		return domain.ListSaleResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(sale *domain.Sale) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        sale.ID.String(),
			CreatedAt: sale.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	sales := make([]domain.Sale, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sales = append(sales, *item)
	}

	resp := domain.ListSaleResponse{Sales: sales}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

// RecordDebtPayment applies a payment to a debt and, when the debt
// mirrors a sale, moves the sale's amount_paid by the same amount in
// the same transaction. The status is re-derived from the new numbers,
// never assumed paid just because the debt row was removed.
func (s *Service) RecordDebtPayment(ctx context.Context, req domain.RecordDebtPaymentRequest) error {
	debtID, err := snowflake.ParseString(strings.TrimSpace(req.DebtID))
	if err != nil || debtID == 0 {
		return domain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		effect, err := s.debts.ApplyPayment(ctx, tx, debtID, req.Amount)
		if err != nil {
			return err
		}
		if effect.SaleID == nil {
			return nil
		}

		sale, err := s.repo.FindByID(ctx, tx, *effect.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			// A linked debt without its sale breaks the cascade
			// invariant; refuse rather than apply half a payment.
			s.log.Warn("debt references missing sale",
				zap.String("debt_id", debtID.String()),
				zap.String("sale_id", effect.SaleID.String()),
			)
			return domain.ErrNotFound
		}

		newPaid := sale.AmountPaid.Add(req.Amount)
		status := money.DeriveStatus(sale.TotalAmount, newPaid)
		return s.repo.UpdatePayment(ctx, tx, sale.ID, newPaid, status, time.Now().UTC())
	})
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
