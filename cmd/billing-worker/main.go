package main

import (
	"time"

	"gestor/internal/cli"
	"gestor/internal/services"
)

// billing-worker periodically advances overdue contract renewal dates.
// Contracts whose renewal date has passed (plus the configured horizon)
// are rolled forward by whole billing periods until the anchor is in
// the future again.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting billing-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	processor := services.NewRenewalProcessor(repo, amqpClient, cfg.RenewalHorizonDays)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Process once at startup so restarts do not wait a full interval.
	if advanced, err := processor.ProcessDueRenewals(ctx, time.Now()); err != nil {
		logger.Error("Startup renewal scan failed", "error", err)
	} else {
		logger.Info("Startup renewal scan done", "advanced", advanced)
	}

	ticker := time.NewTicker(cfg.RenewalScanInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if advanced, err := processor.ProcessDueRenewals(ctx, time.Now()); err != nil {
					if ctx.Err() == nil {
						logger.Error("Renewal scan failed", "error", err)
					}
				} else if advanced > 0 {
					logger.Info("Renewal scan done", "advanced", advanced)
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("billing-worker stopped gracefully")
}
