package service

import (
	"context"
	"sort"
	"time"

	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
	"github.com/smallbiznis/kantin/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	Log      *zap.Logger
	Products productdomain.Repository
	Ledger   ledgerdomain.Repository
	Clock    clock.Clock
	Settings *config.SettingsHolder
}

type Service struct {
	log      *zap.Logger
	products productdomain.Repository
	ledger   ledgerdomain.Repository
	clock    clock.Clock
	settings *config.SettingsHolder
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("report.service"),
		products: p.Products,
		ledger:   p.Ledger,
		clock:    p.Clock,
		settings: p.Settings,
	}
}

func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	transactions, err := s.ledger.List(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}

	threshold := s.settings.Get().LowStockThreshold
	today := dateOf(s.clock.Now())

	stats := domain.Statistics{TotalProducts: len(products)}
	for _, p := range products {
		stats.TotalStock += p.Stock
		if p.Stock < threshold {
			stats.LowStockCount++
		}
	}
	for _, t := range transactions {
		if s.localDate(t.CreatedAt).Equal(today) {
			stats.TodayTransactionCount++
			stats.TodayRevenue += t.TotalPrice
			stats.TodayProfit += t.Profit
		}
	}
	return stats, nil
}

func (s *Service) FilterByDateRange(ctx context.Context, req domain.RangeRequest) ([]ledgerdomain.Transaction, error) {
	start, end, err := normalizeRange(req)
	if err != nil {
		return nil, err
	}

	transactions, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]ledgerdomain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		day := s.localDate(t.CreatedAt)
		if !day.Before(start) && !day.After(end) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *Service) LowStock(ctx context.Context, threshold int) ([]productdomain.Product, error) {
	if threshold <= 0 {
		threshold = s.settings.Get().LowStockThreshold
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]productdomain.Product, 0)
	for _, p := range products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *Service) PeriodSummary(ctx context.Context, req domain.RangeRequest) (domain.PeriodSummary, error) {
	transactions, err := s.FilterByDateRange(ctx, req)
	if err != nil {
		return domain.PeriodSummary{}, err
	}

	summary := domain.PeriodSummary{
		Start:            dateOf(req.Start).Format(dateLayout),
		End:              dateOf(req.End).Format(dateLayout),
		TransactionCount: len(transactions),
	}
	for _, t := range transactions {
		summary.TotalRevenue += t.TotalPrice
		summary.TotalProfit += t.Profit
	}
	if summary.TransactionCount > 0 {
		summary.AverageSale = summary.TotalRevenue / int64(summary.TransactionCount)
	}
	return summary, nil
}

func (s *Service) TopProducts(ctx context.Context, req domain.RangeRequest, limit int) ([]domain.ProductSales, error) {
	transactions, err := s.FilterByDateRange(ctx, req)
	if err != nil {
		return nil, err
	}

	byBarcode := make(map[string]*domain.ProductSales)
	for _, t := range transactions {
		entry, ok := byBarcode[t.BarcodeID]
		if !ok {
			entry = &domain.ProductSales{BarcodeID: t.BarcodeID, ProductName: t.ProductName}
			byBarcode[t.BarcodeID] = entry
		}
		entry.Quantity += t.Quantity
		entry.Revenue += t.TotalPrice
	}

	ranked := make([]domain.ProductSales, 0, len(byBarcode))
	for _, entry := range byBarcode {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].BarcodeID < ranked[j].BarcodeID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Service) SalesByDay(ctx context.Context, req domain.RangeRequest) ([]domain.DailySales, error) {
	transactions, err := s.FilterByDateRange(ctx, req)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domain.DailySales)
	for _, t := range transactions {
		key := s.localDate(t.CreatedAt).Format(dateLayout)
		entry, ok := byDay[key]
		if !ok {
			entry = &domain.DailySales{Date: key}
			byDay[key] = entry
		}
		entry.TransactionCount++
		entry.Revenue += t.TotalPrice
		entry.Profit += t.Profit
	}

	series := make([]domain.DailySales, 0, len(byDay))
	for _, entry := range byDay {
		series = append(series, *entry)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series, nil
}

func (s *Service) InventoryValue(ctx context.Context) (int64, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return 0, err
	}

	var value int64
	for _, p := range products {
		value += int64(p.Stock) * p.CostPrice
	}
	return value, nil
}

func normalizeRange(req domain.RangeRequest) (time.Time, time.Time, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return time.Time{}, time.Time{}, domain.ErrInvalidRange
	}
	start := dateOf(req.Start)
	end := dateOf(req.End)
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidRange
	}
	return start, end, nil
}

// localDate truncates a stored instant to its date in the clock's location,
// so a sale at 01:00 WIB lands on the local day even if the row carries a
// different offset.
func (s *Service) localDate(t time.Time) time.Time {
	return dateOf(t.In(s.clock.Now().Location()))
}

// dateOf truncates to the date component in the timestamp's own location.
// Range boundaries arrive as pure calendar dates and keep theirs.
func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
