package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	saledomain "github.com/smallfactory/bookkeeper/internal/sale/domain"
)

type saleRequest struct {
	Client     string          `json:"client" binding:"required"`
	ProductRef string          `json:"product_ref" binding:"required"`
	SupplyType string          `json:"supply_type"`
	Quantity   int64           `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Date       *time.Time      `json:"date"`
}

func (r saleRequest) toInput() saledomain.SaleInput {
	return saledomain.SaleInput{
		Client:     r.Client,
		ProductRef: r.ProductRef,
		SupplyType: r.SupplyType,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		Discount:   r.Discount,
		AmountPaid: r.AmountPaid,
		Date:       r.Date,
	}
}

func (s *Server) CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.saleSvc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.saleSvc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteSale(c *gin.Context) {
	if err := s.saleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetSaleByID(c *gin.Context) {
	item, err := s.saleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ListSales(c *gin.Context) {
	req := saledomain.ListSaleRequest{
		PageToken: c.Query("page_token"),
		PageSize:  queryInt32(c, "page_size"),
		Client:    strings.TrimSpace(c.Query("client")),
		Status:    strings.TrimSpace(c.Query("status")),
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

	resp, err := s.saleSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Sales, "page_info": resp.PageInfo})
}
