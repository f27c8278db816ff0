package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gestor/internal/amqp"
	"gestor/internal/core"
	"gestor/internal/storage"
)

// RenewalProcessor advances the renewal anchor of contracts whose
// renewal date has passed. Runs on a timer inside the billing worker.
type RenewalProcessor struct {
	storage     *storage.SQLiteRepository
	amqpClient  *amqp.Client
	horizonDays int
}

// NewRenewalProcessor creates the processor. horizonDays lets the worker
// treat contracts renewing within the next N days as due already; zero
// means only contracts whose date has passed.
func NewRenewalProcessor(repo *storage.SQLiteRepository, amqpClient *amqp.Client, horizonDays int) *RenewalProcessor {
	return &RenewalProcessor{
		storage:     repo,
		amqpClient:  amqpClient,
		horizonDays: horizonDays,
	}
}

// ProcessDueRenewals scans for due contracts and pushes each renewal date
// forward by whole billing periods until it lands in the future.
func (p *RenewalProcessor) ProcessDueRenewals(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	asOf := now.AddDate(0, 0, p.horizonDays)
	contracts, err := p.storage.ListContractsDueForRenewal(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("list due contracts: %w", err)
	}

	slog.InfoContext(ctx, "Processing contract renewals",
		"due", len(contracts),
		"as_of", asOf.Format("2006-01-02"))

	processed := 0
	for _, contract := range contracts {
		next := nextFutureRenewal(contract.RenewalDate, contract.Plan.PeriodMonths(), asOf)

		if err := p.storage.UpdateContractRenewal(ctx, contract.ID, next); err != nil {
			slog.ErrorContext(ctx, "Failed to advance renewal",
				"contract", contract.ID,
				"client", contract.ClientName,
				"error", err)
			continue
		}

		if p.amqpClient != nil {
			msg := amqp.NewRenewalAdvancedMessage(contract.ID.String())
			if err := p.amqpClient.PublishBillingEvent(ctx, msg); err != nil {
				// Renewal is already persisted; the audit row is lost, not the renewal
				slog.ErrorContext(ctx, "Failed to publish renewal event",
					"contract", contract.ID,
					"error", err)
			}
		}

		processed++
		slog.InfoContext(ctx, "Renewal advanced",
			"contract", contract.ID,
			"client", contract.ClientName,
			"plan", contract.Plan,
			"next_renewal", next.Format("2006-01-02"))
	}

	slog.InfoContext(ctx, "Renewal processing complete",
		"processed", processed,
		"total_due", len(contracts))

	return processed, nil
}

// nextFutureRenewal steps forward in whole periods. A contract that sat
// unprocessed for several periods catches up in one pass.
func nextFutureRenewal(current core.Date, periodMonths int, asOf time.Time) core.Date {
	next := current.Time
	for !next.After(asOf) {
		next = next.AddDate(0, periodMonths, 0)
	}
	return core.Date{Time: next}
}
