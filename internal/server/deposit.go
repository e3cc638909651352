package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	depositdomain "github.com/smallfactory/bookkeeper/internal/deposit/domain"
)

type depositRequest struct {
	BankName string          `json:"bank_name" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Date     *time.Time      `json:"date"`
	Notes    string          `json:"notes"`
}

func (r depositRequest) toRequest() depositdomain.UpsertDepositRequest {
	return depositdomain.UpsertDepositRequest{
		BankName: r.BankName,
		Amount:   r.Amount,
		Date:     r.Date,
		Notes:    r.Notes,
	}
}

func (s *Server) CreateDeposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.depositSvc.Create(c.Request.Context(), req.toRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateDeposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.depositSvc.Update(c.Request.Context(), c.Param("id"), req.toRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteDeposit(c *gin.Context) {
	if err := s.depositSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetDepositByID(c *gin.Context) {
	item, err := s.depositSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListDeposits(c *gin.Context) {
	req := depositdomain.ListDepositRequest{
		PageToken: c.Query("page_token"),
		PageSize:  queryInt32(c, "page_size"),
		BankName:  strings.TrimSpace(c.Query("bank")),
	}

	var err error
	if req.DateFrom, err = queryTime(c, "from"); err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "invalid date"))
		return
	}
	if req.DateTo, err = queryTime(c, "to"); err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "invalid date"))
		return
	}

	resp, err := s.depositSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Deposits, "page_info": resp.PageInfo})
}
