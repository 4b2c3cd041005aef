package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kantin/internal/barcode"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
	reportdomain "github.com/smallbiznis/kantin/internal/report/domain"
)

func (s *Server) BarcodeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"available": s.barcodes.Available(),
	}})
}

func (s *Server) GenerateBarcode(c *gin.Context) {
	barcodeID := strings.TrimSpace(c.Param("barcode"))

	p, found, err := s.products.Get(c.Request.Context(), barcodeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	path, err := s.barcodes.Generate(p.BarcodeID, p.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"barcode_id": p.BarcodeID,
		"artifact":   path,
	}})
}

type barcodeBatchRequest struct {
	// BarcodeIDs limits the batch; empty means every catalog product.
	BarcodeIDs []string `json:"barcode_ids"`
}

func (s *Server) GenerateBarcodeBatch(c *gin.Context) {
	var req barcodeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()

	var items []barcode.Item
	if len(req.BarcodeIDs) == 0 {
		products, err := s.products.List(ctx)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		for _, p := range products {
			items = append(items, barcode.Item{BarcodeID: p.BarcodeID, Name: p.Name})
		}
	} else {
		for _, id := range req.BarcodeIDs {
			p, found, err := s.products.Get(ctx, strings.TrimSpace(id))
			if err != nil {
				AbortWithError(c, err)
				return
			}
			if !found {
				AbortWithError(c, productdomain.ErrNotFound)
				return
			}
			items = append(items, barcode.Item{BarcodeID: p.BarcodeID, Name: p.Name})
		}
	}

	result := barcode.GenerateBatch(s.barcodes, items)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ScanBarcode resolves a scanned code into the product at the till,
// enriched with the numbers a cashier wants at a glance.
func (s *Server) ScanBarcode(c *gin.Context) {
	barcodeID := strings.TrimSpace(c.Param("barcode"))

	p, found, err := s.products.Get(c.Request.Context(), barcodeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"product":       p,
		"profit_margin": reportdomain.ProfitMargin(p.SellPrice, p.CostPrice),
		"sold_out":      p.Stock <= 0,
	}})
}
