package sheets

import (
	"context"

	"gestor/internal/core"
)

// Ports for outbound adapters.
type (
	// AdjustmentWriter appends one plan-change audit row.
	AdjustmentWriter interface {
		AppendAdjustment(ctx context.Context, contract core.Contract, adj core.Adjustment) (rowRef string, err error)
	}

	// RenewalWriter appends one renewal audit row.
	RenewalWriter interface {
		AppendRenewal(ctx context.Context, contract core.Contract) (rowRef string, err error)
	}

	// AuditWriter is the combined surface the export worker needs.
	AuditWriter interface {
		AdjustmentWriter
		RenewalWriter
	}
)
