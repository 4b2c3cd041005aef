package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kantin/internal/activity"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/ledger/domain"
	"github.com/smallbiznis/kantin/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	Clock    clock.Clock
	GenID    *snowflake.Node
	Activity *activity.Service `optional:"true"`
	Metrics  *metrics.Metrics  `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	clock    clock.Clock
	genID    *snowflake.Node
	activity *activity.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("ledger.service"),
		repo:     p.Repo,
		clock:    p.Clock,
		genID:    p.GenID,
		activity: p.Activity,
		metrics:  p.Metrics,
	}
}

func (s *Service) Sell(ctx context.Context, req domain.SellRequest) (domain.SellResult, error) {
	barcodeID := strings.TrimSpace(req.BarcodeID)
	if barcodeID == "" {
		s.metrics.ObserveSaleFailure("product_not_found")
		return domain.SellResult{}, domain.ErrProductNotFound
	}
	if req.Quantity <= 0 {
		s.metrics.ObserveSaleFailure("insufficient_stock")
		return domain.SellResult{}, domain.ErrInsufficientStock
	}
	if req.UnitPriceOverride != nil && *req.UnitPriceOverride <= 0 {
		s.metrics.ObserveSaleFailure("invalid_unit_price")
		return domain.SellResult{}, domain.ErrInvalidUnitPrice
	}

	result, err := s.repo.RecordSale(ctx, domain.SaleDraft{
		ID:                s.genID.Generate(),
		BarcodeID:         barcodeID,
		Quantity:          req.Quantity,
		UnitPriceOverride: req.UnitPriceOverride,
		CreatedAt:         s.clock.Now(),
	})
	if err != nil {
		s.metrics.ObserveSaleFailure(failureReason(err))
		return domain.SellResult{}, err
	}

	s.metrics.ObserveSale(result.Transaction.Quantity)
	details := fmt.Sprintf("%dx %s (%s)", result.Transaction.Quantity, result.Transaction.ProductName, result.Transaction.BarcodeID)
	if err := s.activity.Record(ctx, "sale_recorded", details); err != nil {
		s.log.Warn("activity record failed", zap.Error(err))
	}
	s.log.Info("sale recorded",
		zap.String("barcode_id", result.Transaction.BarcodeID),
		zap.Int("quantity", result.Transaction.Quantity),
		zap.Int64("total_price", result.Transaction.TotalPrice),
		zap.Int64("profit", result.Transaction.Profit),
		zap.Int("remaining_stock", result.RemainingStock),
	)
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.List(ctx)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "storage"
	}
}
