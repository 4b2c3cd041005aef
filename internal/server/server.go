package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/kantin/internal/activity"
	"github.com/smallbiznis/kantin/internal/auth"
	"github.com/smallbiznis/kantin/internal/auth/session"
	"github.com/smallbiznis/kantin/internal/backup"
	"github.com/smallbiznis/kantin/internal/barcode"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	"github.com/smallbiznis/kantin/internal/export"
	"github.com/smallbiznis/kantin/internal/ledger"
	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
	"github.com/smallbiznis/kantin/internal/observability"
	obsmiddleware "github.com/smallbiznis/kantin/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/kantin/internal/observability/metrics"
	"github.com/smallbiznis/kantin/internal/product"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"github.com/smallbiznis/kantin/internal/report"
	reportdomain "github.com/smallbiznis/kantin/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	recordstore.Module,
	barcode.Module,
	activity.Module,
	auth.Module,
	product.Module,
	ledger.Module,
	report.Module,
	backup.Module,
	export.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	if obsCfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(log, obsCfg, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	authsvc    *auth.Service
	sessions   *session.Manager
	products   productdomain.Service
	sales      ledgerdomain.Service
	reports    reportdomain.Service
	barcodes   barcode.Generator
	backups    *backup.Service
	exports    *export.Service
	activities *activity.Service
	settings   *config.SettingsHolder
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Authsvc    *auth.Service
	Sessions   *session.Manager
	Products   productdomain.Service
	Sales      ledgerdomain.Service
	Reports    reportdomain.Service
	Barcodes   barcode.Generator
	Backups    *backup.Service
	Exports    *export.Service
	Activities *activity.Service
	Settings   *config.SettingsHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		authsvc:    p.Authsvc,
		sessions:   p.Sessions,
		products:   p.Products,
		sales:      p.Sales,
		reports:    p.Reports,
		barcodes:   p.Barcodes,
		backups:    p.Backups,
		exports:    p.Exports,
		activities: p.Activities,
		settings:   p.Settings,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:barcode", s.GetProduct)
	api.PUT("/products/:barcode", s.UpdateProduct)
	api.DELETE("/products/:barcode", s.DeleteProduct)
	api.POST("/products/:barcode/restock", s.RestockProduct)
	api.GET("/categories", s.ListCategories)

	// -------- Sales --------
	api.POST("/sales", s.Sell)
	api.GET("/transactions", s.ListTransactions)

	// -------- Reports --------
	api.GET("/reports/statistics", s.GetStatistics)
	api.GET("/reports/transactions", s.FilterTransactions)
	api.GET("/reports/low-stock", s.ListLowStock)
	api.GET("/reports/summary", s.GetPeriodSummary)
	api.GET("/reports/top-products", s.ListTopProducts)
	api.GET("/reports/sales-by-day", s.ListSalesByDay)
	api.GET("/reports/inventory-value", s.GetInventoryValue)

	// -------- Barcodes --------
	api.GET("/barcodes/status", s.BarcodeStatus)
	api.POST("/barcodes/:barcode", s.GenerateBarcode)
	api.POST("/barcodes/batch", s.GenerateBarcodeBatch)
	api.GET("/scan/:barcode", s.ScanBarcode)

	// -------- Operations --------
	api.GET("/activity", s.ListActivity)
	api.POST("/backups", s.RunBackup)
	api.POST("/backups/clean", s.CleanBackups)
	api.POST("/exports/transactions", s.ExportTransactionsCSV)
	api.POST("/exports/sales-report", s.ExportSalesReportPDF)
}
