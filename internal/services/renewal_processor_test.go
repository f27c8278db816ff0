package services

import (
	"context"
	"testing"
	"time"

	"gestor/internal/core"
)

func TestProcessDueRenewalsAdvancesPastDue(t *testing.T) {
	repo := newTestRepo(t)
	billing := NewBillingService(repo, nil)
	ctx := context.Background()

	due, err := billing.CreateContract(ctx, ContractInput{
		ClientName:   "Padaria Central",
		CNAE:         "4721-1/02",
		MonthlyValue: core.Money{Cents: 45000},
		Plan:         core.PlanMonthly,
		StartDate:    "2024-01-10",
		PaymentDay:   10,
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}

	notYet, err := billing.CreateContract(ctx, ContractInput{
		ClientName:   "Clinica Vida",
		CNAE:         "8630-5/03",
		MonthlyValue: core.Money{Cents: 90000},
		Plan:         core.PlanAnnual,
		StartDate:    "2024-05-01",
		PaymentDay:   1,
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}

	// due renews 2024-02-10; three months later it must catch up in one pass
	processor := NewRenewalProcessor(repo, nil, 0)
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	processed, err := processor.ProcessDueRenewals(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDueRenewals: %v", err)
	}
	if processed != 1 {
		t.Fatalf("processed = %d, want 1", processed)
	}

	updated, err := repo.GetContract(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}
	if got := updated.RenewalDate.Format("2006-01-02"); got != "2024-06-10" {
		t.Errorf("renewal = %s, want 2024-06-10", got)
	}

	untouched, err := repo.GetContract(ctx, notYet.ID)
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}
	if !untouched.RenewalDate.Equal(notYet.RenewalDate.Time) {
		t.Errorf("future contract was advanced to %v", untouched.RenewalDate)
	}
}

func TestProcessDueRenewalsHorizon(t *testing.T) {
	repo := newTestRepo(t)
	billing := NewBillingService(repo, nil)
	ctx := context.Background()

	contract, err := billing.CreateContract(ctx, ContractInput{
		ClientName:   "Mercado Bom Preco",
		CNAE:         "4711-3/02",
		MonthlyValue: core.Money{Cents: 60000},
		Plan:         core.PlanSemestral,
		StartDate:    "2024-01-01",
		PaymentDay:   1,
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}

	// renewal is 2024-07-01; a 30-day horizon catches it in early June
	processor := NewRenewalProcessor(repo, nil, 30)
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	processed, err := processor.ProcessDueRenewals(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDueRenewals: %v", err)
	}
	if processed != 1 {
		t.Fatalf("processed = %d, want 1", processed)
	}

	updated, _ := repo.GetContract(ctx, contract.ID)
	if got := updated.RenewalDate.Format("2006-01-02"); got != "2025-01-01" {
		t.Errorf("renewal = %s, want 2025-01-01", got)
	}
}

func TestProcessDueRenewalsEmpty(t *testing.T) {
	processor := NewRenewalProcessor(newTestRepo(t), nil, 0)

	processed, err := processor.ProcessDueRenewals(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("ProcessDueRenewals: %v", err)
	}
	if processed != 0 {
		t.Errorf("processed = %d, want 0", processed)
	}
}

func TestNextFutureRenewal(t *testing.T) {
	tests := []struct {
		name    string
		current string
		months  int
		asOf    string
		want    string
	}{
		{"one period behind", "2024-02-10", 1, "2024-02-15", "2024-03-10"},
		{"several periods behind", "2024-02-10", 1, "2024-05-20", "2024-06-10"},
		{"exactly on the date", "2024-02-10", 1, "2024-02-10", "2024-03-10"},
		{"semestral catch up", "2023-01-01", 6, "2024-02-01", "2024-07-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, err := core.ParseFlexibleDate(tt.current)
			if err != nil {
				t.Fatalf("parse current: %v", err)
			}
			asOf, err := time.Parse("2006-01-02", tt.asOf)
			if err != nil {
				t.Fatalf("parse asOf: %v", err)
			}
			got := nextFutureRenewal(current, tt.months, asOf)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("nextFutureRenewal = %s, want %s", got.Format("2006-01-02"), tt.want)
			}
		})
	}
}
