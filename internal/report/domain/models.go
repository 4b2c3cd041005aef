package domain

import (
	"context"
	"errors"
	"time"

	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
)

// Statistics is the dashboard headline row.
type Statistics struct {
	TotalProducts         int   `json:"total_products"`
	TotalStock            int   `json:"total_stock"`
	TodayTransactionCount int   `json:"today_transaction_count"`
	TodayRevenue          int64 `json:"today_revenue"`
	TodayProfit           int64 `json:"today_profit"`
	LowStockCount         int   `json:"low_stock_count"`
}

// PeriodSummary aggregates transactions over an inclusive date range.
type PeriodSummary struct {
	Start            string `json:"start"`
	End              string `json:"end"`
	TransactionCount int    `json:"transaction_count"`
	TotalRevenue     int64  `json:"total_revenue"`
	TotalProfit      int64  `json:"total_profit"`
	AverageSale      int64  `json:"average_sale"`
}

// ProductSales ranks a product by units sold over a range.
type ProductSales struct {
	BarcodeID   string `json:"barcode_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

// DailySales is one point of the per-day chart series.
type DailySales struct {
	Date             string `json:"date"`
	TransactionCount int    `json:"transaction_count"`
	Revenue          int64  `json:"revenue"`
	Profit           int64  `json:"profit"`
}

type RangeRequest struct {
	Start time.Time
	End   time.Time
}

type Service interface {
	Statistics(ctx context.Context) (Statistics, error)
	// FilterByDateRange keeps transactions whose date component falls inside
	// the inclusive range; time of day is ignored.
	FilterByDateRange(ctx context.Context, req RangeRequest) ([]ledgerdomain.Transaction, error)
	// LowStock returns products with stock strictly below threshold. A
	// non-positive threshold falls back to the configured alert threshold.
	LowStock(ctx context.Context, threshold int) ([]productdomain.Product, error)
	PeriodSummary(ctx context.Context, req RangeRequest) (PeriodSummary, error)
	TopProducts(ctx context.Context, req RangeRequest, limit int) ([]ProductSales, error)
	SalesByDay(ctx context.Context, req RangeRequest) ([]DailySales, error)
	// InventoryValue is the cost value of everything on the shelves.
	InventoryValue(ctx context.Context) (int64, error)
}

var ErrInvalidRange = errors.New("invalid_range")

// ProfitMargin returns the margin percentage, 0 when sellPrice is 0.
func ProfitMargin(sellPrice, costPrice int64) float64 {
	if sellPrice == 0 {
		return 0
	}
	return float64(sellPrice-costPrice) / float64(sellPrice) * 100
}
