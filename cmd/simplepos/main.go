package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelheddy/simplepos/internal/app"
	"github.com/abelheddy/simplepos/internal/catalog/brands"
	"github.com/abelheddy/simplepos/internal/catalog/listcache"
	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/catalog/taxes"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/lifecycle"
	"github.com/abelheddy/simplepos/internal/observability"
	"github.com/abelheddy/simplepos/internal/platform/cache"
	"github.com/abelheddy/simplepos/internal/platform/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The API keeps working without Redis; lists are just served uncached.
	var catalogCache *listcache.Cache
	if redisClient, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		catalogCache = listcache.New(redisClient, cfg.CatalogCacheTTL, logger)
	}

	brandRepo := brands.NewRepository(pool)
	brandSvc := brands.NewService(brandRepo, catalogCache)
	taxRepo := taxes.NewRepository(pool)
	taxSvc := taxes.NewService(taxRepo, catalogCache)
	productRepo := products.NewRepository(pool)
	productSvc := products.NewService(productRepo)
	inventoryRepo := inventory.NewRepository(pool)
	inventorySvc := inventory.NewService(inventoryRepo)

	atomicStore := lifecycle.NewRepository(pool, productRepo, inventoryRepo)
	coordinator := lifecycle.NewCoordinator(productSvc, inventorySvc, atomicStore)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		ProductHandler:   lifecycle.NewHandler(logger, productSvc, coordinator),
		BrandHandler:     brands.NewHandler(logger, brandSvc),
		TaxHandler:       taxes.NewHandler(logger, taxSvc),
		InventoryHandler: inventory.NewHandler(logger, inventorySvc),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
