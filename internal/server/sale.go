package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
)

type sellRequest struct {
	BarcodeID string `json:"barcode_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice *int64 `json:"unit_price,omitempty"`
}

func (s *Server) Sell(c *gin.Context) {
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sales.Sell(c.Request.Context(), ledgerdomain.SellRequest{
		BarcodeID:         strings.TrimSpace(req.BarcodeID),
		Quantity:          req.Quantity,
		UnitPriceOverride: req.UnitPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListTransactions(c *gin.Context) {
	resp, err := s.sales.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
