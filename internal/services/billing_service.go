package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gestor/internal/amqp"
	"gestor/internal/core"
	"gestor/internal/storage"
)

var ErrContractNotActive = errors.New("contract is not active")

// BillingService orchestrates contract lifecycle operations across the
// database and the AMQP audit queue.
type BillingService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewBillingService(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *BillingService {
	return &BillingService{
		storage:    repo,
		amqpClient: amqpClient,
	}
}

// ContractInput is the request to open a contract. StartDate accepts
// either the ISO or the D/M/YYYY form.
type ContractInput struct {
	ClientName   string
	CNAE         string
	MonthlyValue core.Money
	Plan         core.PlanType
	StartDate    string
	PaymentDay   int
	TrialDays    int
}

// CreateContract opens a contract. The first renewal lands one billing
// period after the start date, pushed out by the trial days when a trial
// was agreed. The CNAE code decides the market segment.
func (s *BillingService) CreateContract(ctx context.Context, in ContractInput) (*core.Contract, error) {
	startText, err := core.ToInputFormat(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	billingStart := startText
	if in.TrialDays > 0 {
		billingStart, err = core.AddTrialDays(startText, strconv.Itoa(in.TrialDays))
		if err != nil {
			return nil, fmt.Errorf("trial days: %w", err)
		}
	}

	renewalText, err := core.AddMonths(billingStart, in.Plan.PeriodMonths())
	if err != nil {
		return nil, fmt.Errorf("renewal date: %w", err)
	}

	start, err := core.ParseFlexibleDate(startText)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	renewal, err := core.ParseFlexibleDate(renewalText)
	if err != nil {
		return nil, fmt.Errorf("renewal date: %w", err)
	}

	contract := core.Contract{
		ID:           uuid.New(),
		ClientName:   in.ClientName,
		CNAE:         in.CNAE,
		Segment:      core.ClassifySegment(in.CNAE),
		MonthlyValue: in.MonthlyValue,
		Plan:         in.Plan,
		StartDate:    start,
		RenewalDate:  renewal,
		PaymentDay:   in.PaymentDay,
		TrialDays:    in.TrialDays,
		Status:       core.ContractActive,
	}
	if err := contract.Validate(); err != nil {
		return nil, fmt.Errorf("validate contract: %w", err)
	}

	if err := s.storage.CreateContract(ctx, contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetContract returns one contract by ID.
func (s *BillingService) GetContract(ctx context.Context, id uuid.UUID) (*core.Contract, error) {
	return s.storage.GetContract(ctx, id)
}

// ListContracts returns contracts, optionally filtered by status.
func (s *BillingService) ListContracts(ctx context.Context, status core.ContractStatus) ([]core.Contract, error) {
	return s.storage.ListContracts(ctx, status)
}

// Adjustments returns the append-only plan-change history of a contract.
func (s *BillingService) Adjustments(ctx context.Context, contractID uuid.UUID) ([]core.Adjustment, error) {
	return s.storage.ListAdjustments(ctx, contractID)
}

// AdjustmentResult carries everything an adjustment produced: the audit
// record, the proration breakdown for the contract's plan, and the
// recomputed renewal date. Exactly one of Monthly or Period is set.
type AdjustmentResult struct {
	Adjustment     core.Adjustment
	Monthly        *core.MonthlyProrationResult
	Period         *core.PeriodProrationResult
	NewRenewalDate core.Date
}

// ApplyAdjustment changes a contract's value. It prorates the current
// billing window, appends the audit record, moves the renewal anchor to
// the anniversary after the effective date, and publishes the event.
// The publish is best effort; the database write is the source of truth.
func (s *BillingService) ApplyAdjustment(ctx context.Context, contractID uuid.UUID, newValue core.Money, effectiveDateText, note string, now time.Time) (*AdjustmentResult, error) {
	if err := newValue.Validate(); err != nil {
		return nil, fmt.Errorf("new value: %w", err)
	}

	contract, err := s.storage.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != core.ContractActive {
		return nil, ErrContractNotActive
	}

	effective, err := core.ParseFlexibleDate(effectiveDateText)
	if err != nil {
		return nil, fmt.Errorf("effective date: %w", err)
	}

	result := &AdjustmentResult{}
	if contract.Plan == core.PlanMonthly {
		monthly, err := core.MonthlyProration(now, effectiveDateText, contract.PaymentDay, contract.MonthlyValue, newValue)
		if err != nil {
			return nil, fmt.Errorf("monthly proration: %w", err)
		}
		result.Monthly = &monthly
	} else {
		period, err := core.PeriodProration(effectiveDateText, contract.RenewalDate.Format("2006-01-02"), contract.MonthlyValue, newValue, contract.Plan)
		if err != nil {
			return nil, fmt.Errorf("period proration: %w", err)
		}
		result.Period = &period
	}

	adj := core.Adjustment{
		ContractID:    contractID,
		PreviousValue: contract.MonthlyValue,
		NewValue:      newValue,
		EffectiveDate: effective,
		Difference:    core.Money{Cents: newValue.Cents - contract.MonthlyValue.Cents},
		Note:          note,
	}
	if err := adj.Validate(); err != nil {
		return nil, fmt.Errorf("validate adjustment: %w", err)
	}

	id, err := s.storage.AppendAdjustment(ctx, adj)
	if err != nil {
		return nil, err
	}
	adj.ID = id
	result.Adjustment = adj

	// Monthly contracts renew at the next payment date; longer plans move
	// to the anniversary that follows the change.
	var newRenewal core.Date
	if result.Monthly != nil {
		newRenewal = result.Monthly.NextPaymentDate
	} else {
		newRenewal = core.NextRenewal(contract.StartDate, effective, contract.Plan.PeriodMonths())
	}
	if err := s.storage.UpdateContractBilling(ctx, contractID, newValue.Cents, newRenewal); err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}
	result.NewRenewalDate = newRenewal

	s.publishEvent(ctx, amqp.NewAdjustmentAppliedMessage(contractID.String(), id))

	return result, nil
}

// ProrationPreview computes the adjustment breakdown without writing
// anything. Bad proration inputs still produce a result; it comes back
// tagged as a fallback instead of failing the preview.
func (s *BillingService) ProrationPreview(ctx context.Context, contractID uuid.UUID, newValue core.Money, changeDateText string, now time.Time) (*AdjustmentResult, error) {
	if err := newValue.Validate(); err != nil {
		return nil, fmt.Errorf("new value: %w", err)
	}

	contract, err := s.storage.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	result := &AdjustmentResult{}
	if contract.Plan == core.PlanMonthly {
		monthly, err := core.MonthlyProration(now, changeDateText, contract.PaymentDay, contract.MonthlyValue, newValue)
		if err != nil {
			slog.WarnContext(ctx, "Proration preview degraded to fallback",
				"contract", contractID, "error", err)
		}
		result.Monthly = &monthly
	} else {
		period, err := core.PeriodProration(changeDateText, contract.RenewalDate.Format("2006-01-02"), contract.MonthlyValue, newValue, contract.Plan)
		if err != nil {
			slog.WarnContext(ctx, "Proration preview degraded to fallback",
				"contract", contractID, "error", err)
		}
		result.Period = &period
	}

	return result, nil
}

func (s *BillingService) publishEvent(ctx context.Context, msg *amqp.BillingEventMessage) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping billing event", "kind", msg.Kind)
		return
	}
	if err := s.amqpClient.PublishBillingEvent(ctx, msg); err != nil {
		// Don't fail the request, the database write already succeeded
		slog.ErrorContext(ctx, "Failed to publish billing event",
			"kind", msg.Kind,
			"contract", msg.ContractID,
			"error", err)
	}
}

// Close closes storage and AMQP connections.
func (s *BillingService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close billing service: %v", errs)
	}
	return nil
}
