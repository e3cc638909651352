package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallfactory/bookkeeper/internal/report/domain"
)

func (s *Server) GetSummary(c *gin.Context) {
	var req reportdomain.SummaryRequest

	var err error
	if req.DateFrom, err = queryTime(c, "from"); err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "invalid date"))
		return
	}
	if req.DateTo, err = queryTime(c, "to"); err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "invalid date"))
		return
	}

	summary, err := s.reportSvc.Summary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
