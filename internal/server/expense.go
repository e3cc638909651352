package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	expensedomain "github.com/smallfactory/bookkeeper/internal/expense/domain"
)

type expenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
}

func (r expenseRequest) toRequest() expensedomain.UpsertExpenseRequest {
	return expensedomain.UpsertExpenseRequest{
		Category:    r.Category,
		Description: r.Description,
		Amount:      r.Amount,
		Date:        r.Date,
	}
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.expenseSvc.Create(c.Request.Context(), req.toRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.expenseSvc.Update(c.Request.Context(), c.Param("id"), req.toRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	if err := s.expenseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	item, err := s.expenseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListExpenses(c *gin.Context) {
	req := expensedomain.ListExpenseRequest{
		PageToken: c.Query("page_token"),
		PageSize:  queryInt32(c, "page_size"),
		Category:  strings.TrimSpace(c.Query("category")),
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

	resp, err := s.expenseSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Expenses, "page_info": resp.PageInfo})
}
