package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kantin/internal/activity"
)

func (s *Server) ListActivity(c *gin.Context) {
	limit, err := parseOptionalInt(c, "limit", activity.DefaultRecentLimit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if limit <= 0 {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be positive"))
		return
	}

	entries, err := s.activities.Recent(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) RunBackup(c *gin.Context) {
	result, err := s.backups.Run()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

type cleanBackupsRequest struct {
	// Days of history to keep; zero falls back to the configured retention.
	Days int `json:"days"`
}

func (s *Server) CleanBackups(c *gin.Context) {
	var req cleanBackupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Days < 0 {
		AbortWithError(c, newValidationError("days", "invalid_days", "days must not be negative"))
		return
	}

	result, err := s.backups.CleanOld(req.Days)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ExportTransactionsCSV(c *gin.Context) {
	transactions, err := s.sales.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	path, err := s.exports.TransactionsCSV(transactions, "transactions")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"path": path}})
}

func (s *Server) ExportSalesReportPDF(c *gin.Context) {
	req, err := parseRangeQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()

	summary, err := s.reports.PeriodSummary(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	transactions, err := s.reports.FilterByDateRange(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	path, err := s.exports.SalesReportPDF(summary, transactions, "sales-report")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"path": path}})
}
