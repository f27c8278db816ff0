package main

import (
	"context"
	"os"
	"time"

	"gestor/internal/amqp"
	"gestor/internal/cli"
	"gestor/internal/sheets"
	gsheet "gestor/internal/sheets/google"
	mem "gestor/internal/sheets/memory"
	"gestor/internal/worker"
)

// export-worker consumes billing events and mirrors them onto the audit
// spreadsheet. Without Google credentials it falls back to an in-memory
// store, which keeps local development working end to end.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting export-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var audit sheets.AuditWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		audit = client
		logger.Info("Google Sheets audit export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		audit = mem.New()
		logger.Info("Google Sheets disabled - audit rows kept in memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, audit, cfg.ExportBatchSize)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Replay the adjustment backlog so rows written while the worker was
	// down still reach the audit sheet.
	if exported, err := exportWorker.ExportBacklog(ctx); err != nil {
		logger.Error("Backlog export failed", "error", err)
	} else {
		logger.Info("Backlog export done", "exported", exported)
	}

	go func() {
		err := amqpClient.ConsumeBillingEvents(ctx, func(msg *amqp.BillingEventMessage) error {
			return exportWorker.HandleBillingEvent(ctx, msg)
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Billing event consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("export-worker stopped gracefully")
}
