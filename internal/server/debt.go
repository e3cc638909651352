package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	saledomain "github.com/smallfactory/bookkeeper/internal/sale/domain"
)

type debtRequest struct {
	Client string          `json:"client" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateDebt records a manual debt. Sale-linked debts are created by
// the sale service only.
func (s *Server) CreateDebt(c *gin.Context) {
	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.debtSvc.CreateStandalone(c.Request.Context(), debtdomain.CreateStandaloneRequest{
		Client: req.Client,
		Amount: req.Amount,
		Notes:  req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) GetDebtByID(c *gin.Context) {
	item, err := s.debtSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListDebts(c *gin.Context) {
	resp, err := s.debtSvc.List(c.Request.Context(), debtdomain.ListDebtRequest{
		PageToken: c.Query("page_token"),
		PageSize:  queryInt32(c, "page_size"),
		Client:    strings.TrimSpace(c.Query("client")),
		Kind:      strings.TrimSpace(c.Query("kind")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Debts, "page_info": resp.PageInfo})
}

func (s *Server) DeleteDebt(c *gin.Context) {
	if err := s.debtSvc.DeleteStandalone(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordDebtPayment applies a payment against a debt. Payments on
// sale-linked debts go through the sale service so the sale's
// amount_paid moves in the same transaction; standalone debts settle
// in the ledger alone.
func (s *Server) RecordDebtPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	debt, err := s.debtSvc.GetByID(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, linked := debt.LinkedSaleID(); linked {
		err = s.saleSvc.RecordDebtPayment(ctx, saledomain.RecordDebtPaymentRequest{
			DebtID: id,
			Amount: req.Amount,
		})
	} else {
		_, err = s.debtSvc.RecordStandalonePayment(ctx, debtdomain.RecordPaymentRequest{
			DebtID: id,
			Amount: req.Amount,
		})
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
