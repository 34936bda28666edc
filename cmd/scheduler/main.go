package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/crediario/credit-ledger/internal/config"
	"github.com/crediario/credit-ledger/internal/repository"
	"github.com/crediario/credit-ledger/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ledgerService := service.NewLedgerService(
		repository.NewSaleRepository(db),
		repository.NewInstallmentRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPaymentMethodRepository(db),
		redisClient, cfg, logger, service.NewRealClock(),
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatal("invalid scheduler timezone", zap.Error(err))
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, cfg, ledgerService, logger)

	c.Start()
	logger.Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, ledgerService *service.LedgerService, logger *zap.Logger) {
	// Daily overdue report. Overdue is derived, never persisted, so the
	// job only reports; the read endpoints recompute it per request.
	_, err := c.AddFunc(cfg.Scheduler.OverdueReportSpec, func() {
		reportOverdueInstallments(ledgerService, logger)
	})
	if err != nil {
		logger.Error("failed to schedule overdue report job", zap.Error(err))
	}

	// Periodic payment-methods cache warm so payment registration does not
	// pay the catalog query on a cold cache.
	_, err = c.AddFunc(cfg.Scheduler.CacheWarmSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := ledgerService.WarmMethodCache(ctx); err != nil {
			logger.Error("payment methods cache warm failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("failed to schedule cache warm job", zap.Error(err))
	}
}

func reportOverdueInstallments(ledgerService *service.LedgerService, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	installments, err := ledgerService.OverdueInstallments(ctx)
	if err != nil {
		logger.Error("overdue report failed", zap.Error(err))
		return
	}

	perSale := make(map[string]int)
	for _, installment := range installments {
		perSale[installment.SaleID.String()]++
	}

	logger.Info("overdue report",
		zap.Int("overdue_installments", len(installments)),
		zap.Int("affected_sales", len(perSale)),
	)

	for saleID, count := range perSale {
		logger.Info("sale has overdue installments",
			zap.String("sale_id", saleID),
			zap.Int("count", count),
		)
	}
}
