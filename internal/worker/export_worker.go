package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gestor/internal/amqp"
	"gestor/internal/core"
	"gestor/internal/sheets"
	"gestor/internal/storage"
)

// defaultBatchSize bounds a backlog replay pass when no explicit batch
// size is configured.
const defaultBatchSize = 10

// ExportWorker mirrors billing events into the audit spreadsheet. The
// queue carries only IDs; the worker reads the full records here so the
// sheet always reflects what the database committed.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	audit     sheets.AuditWriter
	batchSize int
}

func NewExportWorker(repo *storage.SQLiteRepository, audit sheets.AuditWriter, batchSize int) *ExportWorker {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &ExportWorker{
		storage:   repo,
		audit:     audit,
		batchSize: batchSize,
	}
}

// HandleBillingEvent processes one event from the queue. Returning an
// error requeues the delivery.
func (w *ExportWorker) HandleBillingEvent(ctx context.Context, msg *amqp.BillingEventMessage) error {
	slog.InfoContext(ctx, "Processing billing event",
		"kind", msg.Kind,
		"contract", msg.ContractID)

	contractID, err := uuid.Parse(msg.ContractID)
	if err != nil {
		return fmt.Errorf("parse contract id %q: %w", msg.ContractID, err)
	}

	contract, err := w.storage.GetContract(ctx, contractID)
	if err != nil {
		return fmt.Errorf("get contract: %w", err)
	}

	switch msg.Kind {
	case amqp.KindAdjustmentApplied:
		adj, err := w.storage.GetAdjustment(ctx, msg.AdjustmentID)
		if err != nil {
			return fmt.Errorf("get adjustment %d: %w", msg.AdjustmentID, err)
		}
		ref, err := w.audit.AppendAdjustment(ctx, *contract, *adj)
		if err != nil {
			return fmt.Errorf("append adjustment row: %w", err)
		}
		slog.InfoContext(ctx, "Adjustment exported",
			"contract", contract.ID,
			"adjustment_id", adj.ID,
			"sheets_ref", ref)

	case amqp.KindRenewalAdvanced:
		ref, err := w.audit.AppendRenewal(ctx, *contract)
		if err != nil {
			return fmt.Errorf("append renewal row: %w", err)
		}
		slog.InfoContext(ctx, "Renewal exported",
			"contract", contract.ID,
			"sheets_ref", ref)

	default:
		// Unknown kinds are dropped, not requeued; a newer producer may
		// emit kinds this worker does not know yet.
		slog.WarnContext(ctx, "Ignoring unknown billing event kind", "kind", msg.Kind)
	}

	return nil
}

// backlogRow pairs an adjustment with its owning contract for replay.
type backlogRow struct {
	contract   core.Contract
	adjustment core.Adjustment
}

// ExportBacklog replays the full adjustment history of every contract
// into the audit sheet, at most batchSize rows per pass. Used to
// rebuild the spreadsheet from scratch; cancellation between batches
// stops the replay without losing the rows already written.
func (w *ExportWorker) ExportBacklog(ctx context.Context) (int, error) {
	contracts, err := w.storage.ListContracts(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list contracts: %w", err)
	}

	var rows []backlogRow
	for _, contract := range contracts {
		adjustments, err := w.storage.ListAdjustments(ctx, contract.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list adjustments",
				"contract", contract.ID, "error", err)
			continue
		}
		for _, adj := range adjustments {
			rows = append(rows, backlogRow{contract: contract, adjustment: adj})
		}
	}

	exported := 0
	for start := 0; start < len(rows); start += w.batchSize {
		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "Backlog export interrupted",
				"exported", exported, "total", len(rows))
			return exported, err
		}
		end := min(start+w.batchSize, len(rows))
		for _, row := range rows[start:end] {
			if _, err := w.audit.AppendAdjustment(ctx, row.contract, row.adjustment); err != nil {
				slog.ErrorContext(ctx, "Failed to export adjustment",
					"contract", row.contract.ID,
					"adjustment_id", row.adjustment.ID,
					"error", err)
				continue
			}
			exported++
		}
		slog.InfoContext(ctx, "Backlog batch exported",
			"done", end, "total", len(rows))
	}

	slog.InfoContext(ctx, "Backlog export finished", "exported", exported)
	return exported, nil
}
