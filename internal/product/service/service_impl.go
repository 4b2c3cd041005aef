package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/kantin/internal/activity"
	"github.com/smallbiznis/kantin/internal/barcode"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/observability/metrics"
	"github.com/smallbiznis/kantin/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	Clock    clock.Clock
	Barcode  barcode.Generator
	Activity *activity.Service `optional:"true"`
	Metrics  *metrics.Metrics  `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	clock    clock.Clock
	barcode  barcode.Generator
	activity *activity.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("product.service"),
		repo:     p.Repo,
		clock:    p.Clock,
		barcode:  p.Barcode,
		activity: p.Activity,
		metrics:  p.Metrics,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddRequest) (domain.Product, error) {
	product, err := s.buildProduct(req.BarcodeID, req.Name, req.Category, req.Stock, req.CostPrice, req.SellPrice)
	if err != nil {
		return domain.Product{}, err
	}

	now := s.clock.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Insert(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.metrics.ObserveCatalogMutation("add")
	s.recordActivity(ctx, "product_added", fmt.Sprintf("%s (%s)", product.Name, product.BarcodeID))
	s.generateArtifact(product)

	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Product, error) {
	product, err := s.buildProduct(req.BarcodeID, req.Name, req.Category, req.Stock, req.CostPrice, req.SellPrice)
	if err != nil {
		return domain.Product{}, err
	}

	now := s.clock.Now()
	updated, err := s.repo.Mutate(ctx, product.BarcodeID, func(current *domain.Product) error {
		product.CreatedAt = current.CreatedAt
		product.UpdatedAt = now
		*current = product
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.metrics.ObserveCatalogMutation("update")
	s.recordActivity(ctx, "product_updated", fmt.Sprintf("%s (%s)", updated.Name, updated.BarcodeID))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, barcodeID string) error {
	barcodeID = strings.TrimSpace(barcodeID)
	if barcodeID == "" {
		return domain.ErrInvalidBarcode
	}

	if err := s.repo.Delete(ctx, barcodeID); err != nil {
		return err
	}

	s.metrics.ObserveCatalogMutation("delete")
	s.recordActivity(ctx, "product_deleted", barcodeID)
	if err := s.barcode.Remove(barcodeID); err != nil {
		s.log.Warn("barcode artifact removal failed",
			zap.String("barcode_id", barcodeID),
			zap.Error(err),
		)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, barcodeID string) (domain.Product, bool, error) {
	product, err := s.repo.Find(ctx, strings.TrimSpace(barcodeID))
	if err != nil {
		return domain.Product{}, false, err
	}
	if product == nil {
		return domain.Product{}, false, nil
	}
	return *product, true, nil
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Product, error) {
	var category domain.Category
	if strings.TrimSpace(req.Category) != "" {
		parsed, err := domain.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		category = parsed
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	matches := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Name), keyword) &&
			!strings.Contains(strings.ToLower(p.BarcodeID), keyword) {
			continue
		}
		matches = append(matches, p)
	}
	return matches, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Restock(ctx context.Context, req domain.RestockRequest) (domain.Product, error) {
	barcodeID := strings.TrimSpace(req.BarcodeID)
	if barcodeID == "" {
		return domain.Product{}, domain.ErrInvalidBarcode
	}
	if req.Amount <= 0 {
		return domain.Product{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	updated, err := s.repo.Mutate(ctx, barcodeID, func(current *domain.Product) error {
		current.Stock += req.Amount
		current.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.metrics.ObserveCatalogMutation("restock")
	s.recordActivity(ctx, "product_restocked", fmt.Sprintf("+%d %s (%s)", req.Amount, updated.Name, updated.BarcodeID))
	return updated, nil
}

// recordActivity never fails the mutation it trails.
func (s *Service) recordActivity(ctx context.Context, action, details string) {
	if err := s.activity.Record(ctx, action, details); err != nil {
		s.log.Warn("activity record failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *Service) buildProduct(barcodeID, name, category string, stock int, costPrice, sellPrice int64) (domain.Product, error) {
	barcodeID = strings.TrimSpace(barcodeID)
	if !barcode.ValidateFormat(barcodeID) {
		return domain.Product{}, domain.ErrInvalidBarcode
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	parsedCategory, err := domain.ParseCategory(category)
	if err != nil {
		return domain.Product{}, err
	}

	if stock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}
	if costPrice < 0 || sellPrice < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if sellPrice <= costPrice {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	return domain.Product{
		BarcodeID: barcodeID,
		Name:      name,
		Category:  parsedCategory,
		Stock:     stock,
		CostPrice: costPrice,
		SellPrice: sellPrice,
	}, nil
}

// generateArtifact is best effort: the catalog works identically when the
// generator backend is absent or failing.
func (s *Service) generateArtifact(product domain.Product) {
	if !s.barcode.Available() {
		return
	}
	if _, err := s.barcode.Generate(product.BarcodeID, product.Name); err != nil {
		s.log.Warn("barcode artifact generation failed",
			zap.String("barcode_id", product.BarcodeID),
			zap.Error(err),
		)
	}
}
