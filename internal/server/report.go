package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetStatistics(c *gin.Context) {
	resp, err := s.reports.Statistics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FilterTransactions(c *gin.Context) {
	req, err := parseRangeQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.FilterByDateRange(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLowStock(c *gin.Context) {
	threshold, err := parseOptionalInt(c, "threshold", 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.LowStock(c.Request.Context(), threshold)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPeriodSummary(c *gin.Context) {
	req, err := parseRangeQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.PeriodSummary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTopProducts(c *gin.Context) {
	req, err := parseRangeQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	limit, err := parseOptionalInt(c, "limit", 5)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.TopProducts(c.Request.Context(), req, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSalesByDay(c *gin.Context) {
	req, err := parseRangeQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.SalesByDay(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInventoryValue(c *gin.Context) {
	value, err := s.reports.InventoryValue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"inventory_value": value}})
}
