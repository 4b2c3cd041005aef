package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
)

type productRequest struct {
	BarcodeID string `json:"barcode_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Stock     int    `json:"stock"`
	CostPrice int64  `json:"cost_price"`
	SellPrice int64  `json:"sell_price"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.products.Add(c.Request.Context(), productdomain.AddRequest{
		BarcodeID: strings.TrimSpace(req.BarcodeID),
		Name:      strings.TrimSpace(req.Name),
		Category:  req.Category,
		Stock:     req.Stock,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Keyword  string `form:"q"`
		Category string `form:"category"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	if query.Keyword == "" && query.Category == "" {
		resp, err := s.products.List(ctx)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	resp, err := s.products.Search(ctx, productdomain.SearchRequest{
		Keyword:  strings.TrimSpace(query.Keyword),
		Category: query.Category,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduct(c *gin.Context) {
	barcodeID := strings.TrimSpace(c.Param("barcode"))

	resp, found, err := s.products.Get(c.Request.Context(), barcodeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, productdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.products.Update(c.Request.Context(), productdomain.UpdateRequest{
		BarcodeID: strings.TrimSpace(c.Param("barcode")),
		Name:      strings.TrimSpace(req.Name),
		Category:  req.Category,
		Stock:     req.Stock,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	barcodeID := strings.TrimSpace(c.Param("barcode"))

	if err := s.products.Delete(c.Request.Context(), barcodeID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"barcode_id": barcodeID, "status": "deleted"}})
}

type restockRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) RestockProduct(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.products.Restock(c.Request.Context(), productdomain.RestockRequest{
		BarcodeID: strings.TrimSpace(c.Param("barcode")),
		Amount:    req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": productdomain.Categories()})
}
