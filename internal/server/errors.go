package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	debtdomain "github.com/smallfactory/bookkeeper/internal/debt/domain"
	depositdomain "github.com/smallfactory/bookkeeper/internal/deposit/domain"
	expensedomain "github.com/smallfactory/bookkeeper/internal/expense/domain"
	"github.com/smallfactory/bookkeeper/internal/money"
	saledomain "github.com/smallfactory/bookkeeper/internal/sale/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, money.ErrInvalidQuantity),
		errors.Is(err, money.ErrInvalidUnitPrice),
		errors.Is(err, money.ErrInvalidDiscount),
		errors.Is(err, money.ErrDiscountExceedsSubtotal),
		errors.Is(err, saledomain.ErrInvalidID),
		errors.Is(err, saledomain.ErrInvalidClient),
		errors.Is(err, saledomain.ErrInvalidProductRef),
		errors.Is(err, saledomain.ErrInvalidAmountPaid),
		errors.Is(err, saledomain.ErrOverpayment),
		errors.Is(err, debtdomain.ErrInvalidID),
		errors.Is(err, debtdomain.ErrInvalidClient),
		errors.Is(err, debtdomain.ErrInvalidAmount),
		errors.Is(err, debtdomain.ErrInvalidPayment),
		errors.Is(err, debtdomain.ErrPaymentExceedsBalance),
		errors.Is(err, debtdomain.ErrNotStandalone),
		errors.Is(err, expensedomain.ErrInvalidID),
		errors.Is(err, expensedomain.ErrInvalidCategory),
		errors.Is(err, expensedomain.ErrInvalidAmount),
		errors.Is(err, depositdomain.ErrInvalidID),
		errors.Is(err, depositdomain.ErrInvalidBank),
		errors.Is(err, depositdomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, saledomain.ErrNotFound),
		errors.Is(err, debtdomain.ErrNotFound),
		errors.Is(err, expensedomain.ErrNotFound),
		errors.Is(err, depositdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
