package main

import (
	"context"
	"os"
	"time"

	"gestor/internal/cache"
	"gestor/internal/cli"
	apphttp "gestor/internal/http"
	"gestor/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting gestor API server")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	reports := services.NewReportService(repo, cfg.ReportCacheTTL)
	costs := services.NewCostService(repo, reports.InvalidateYear)
	billing := services.NewBillingService(repo, amqpClient)
	importer := services.NewImportService(costs)

	cacheManager := cache.NewManager()
	reports.RegisterCache(cacheManager)
	cacheManager.StartCleanup(cfg.ReportCacheTTL)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(apphttp.Config{
		Port:              cfg.Port,
		RequestsPerMinute: 60,
		Costs:             costs,
		Reports:           reports,
		Billing:           billing,
		Importer:          importer,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
