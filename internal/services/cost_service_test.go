package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gestor/internal/core"
	"gestor/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "gestor.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveCostPositiveValue(t *testing.T) {
	repo := newTestRepo(t)
	var invalidated []int
	svc := NewCostService(repo, func(year int) { invalidated = append(invalidated, year) })
	ctx := context.Background()

	outcome, err := svc.SaveCost(ctx, core.MonthlyCost{
		CategoryID: "marketing",
		Year:       2024,
		Month:      5,
		Value:      core.Money{Cents: 80000},
	})
	if err != nil {
		t.Fatalf("SaveCost: %v", err)
	}
	if outcome != CostSaved {
		t.Errorf("outcome = %q, want %q", outcome, CostSaved)
	}
	if len(invalidated) != 1 || invalidated[0] != 2024 {
		t.Errorf("invalidated = %v, want [2024]", invalidated)
	}

	rows, err := svc.ListYear(ctx, 2024)
	if err != nil {
		t.Fatalf("ListYear: %v", err)
	}
	if len(rows) != 1 || rows[0].Value.Cents != 80000 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestSaveCostZeroAlwaysClears(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewCostService(repo, nil)
	ctx := context.Background()

	if _, err := svc.SaveCost(ctx, core.MonthlyCost{
		CategoryID: "software",
		Year:       2024,
		Month:      2,
		Value:      core.Money{Cents: 12000},
	}); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	outcome, err := svc.SaveCost(ctx, core.MonthlyCost{
		CategoryID: "software",
		Year:       2024,
		Month:      2,
	})
	if err != nil {
		t.Fatalf("zero save: %v", err)
	}
	if outcome != CostCleared {
		t.Errorf("outcome = %q, want %q", outcome, CostCleared)
	}

	rows, err := svc.ListYear(ctx, 2024)
	if err != nil {
		t.Fatalf("ListYear: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows after clear = %+v, want none", rows)
	}

	// Clearing a cell that never existed is a no-op, not an error.
	outcome, err = svc.SaveCost(ctx, core.MonthlyCost{
		CategoryID: "software",
		Year:       2024,
		Month:      9,
	})
	if err != nil || outcome != CostCleared {
		t.Errorf("clear of absent cell = %q, %v", outcome, err)
	}
}

func TestSaveCostRejectsInvalid(t *testing.T) {
	svc := NewCostService(newTestRepo(t), nil)

	tests := []struct {
		name string
		cost core.MonthlyCost
		want error
	}{
		{"empty category", core.MonthlyCost{Year: 2024, Month: 1, Value: core.Money{Cents: 100}}, core.ErrEmptyCategory},
		{"month zero", core.MonthlyCost{CategoryID: "folha", Year: 2024, Value: core.Money{Cents: 100}}, core.ErrInvalidMonth},
		{"month thirteen", core.MonthlyCost{CategoryID: "folha", Year: 2024, Month: 13, Value: core.Money{Cents: 100}}, core.ErrInvalidMonth},
		{"negative value", core.MonthlyCost{CategoryID: "folha", Year: 2024, Month: 1, Value: core.Money{Cents: -1}}, core.ErrInvalidAmount},
		{"year out of range", core.MonthlyCost{CategoryID: "folha", Year: 1999, Month: 1, Value: core.Money{Cents: 100}}, core.ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveCost(context.Background(), tt.cost)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestListYearRejectsOutOfRange(t *testing.T) {
	svc := NewCostService(newTestRepo(t), nil)

	if _, err := svc.ListYear(context.Background(), 1990); !errors.Is(err, core.ErrInvalidYear) {
		t.Errorf("err = %v, want ErrInvalidYear", err)
	}
}
