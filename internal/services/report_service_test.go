package services

import (
	"context"
	"testing"
	"time"

	"gestor/internal/core"
)

func TestAnnualReportFromStoredCosts(t *testing.T) {
	repo := newTestRepo(t)
	reports := NewReportService(repo, time.Minute)
	costs := NewCostService(repo, reports.InvalidateYear)
	ctx := context.Background()

	seed := []core.MonthlyCost{
		{CategoryID: "contratos", Year: 2024, Month: 1, Value: core.Money{Cents: 500000}},
		{CategoryID: "contratos", Year: 2024, Month: 2, Value: core.Money{Cents: 500000}},
		{CategoryID: "folha", Year: 2024, Month: 1, Value: core.Money{Cents: 300000}},
		{CategoryID: "juros_multas", Year: 2024, Month: 1, Value: core.Money{Cents: 10000}},
	}
	for _, c := range seed {
		if _, err := costs.SaveCost(ctx, c); err != nil {
			t.Fatalf("SaveCost %s: %v", c.CategoryID, err)
		}
	}

	report, err := reports.AnnualReport(ctx, 2024)
	if err != nil {
		t.Fatalf("AnnualReport: %v", err)
	}

	if report.Year != 2024 {
		t.Errorf("year = %d", report.Year)
	}
	if report.Revenue.Annual != 1000000 {
		t.Errorf("revenue = %d, want 1000000", report.Revenue.Annual)
	}
	// expense covers operational folha plus non-operational juros_multas
	if report.Expense.Annual != 310000 {
		t.Errorf("expense = %d, want 310000", report.Expense.Annual)
	}
	// January: 500000 revenue - 300000 operational expense
	if report.OperationalProfit[0] != 200000 {
		t.Errorf("january operational profit = %d, want 200000", report.OperationalProfit[0])
	}
	if report.NonOperationalResult[0] != -10000 {
		t.Errorf("january non-operational result = %d, want -10000", report.NonOperationalResult[0])
	}
	if report.NetProfit[0] != 190000 {
		t.Errorf("january net profit = %d, want 190000", report.NetProfit[0])
	}
	// February has only revenue
	if report.OperationalProfit[1] != 500000 || report.NetProfit[1] != 500000 {
		t.Errorf("february profits = %d/%d, want 500000/500000",
			report.OperationalProfit[1], report.NetProfit[1])
	}

	// every seeded category appears in its section even with no rows
	if len(report.Sections) == 0 {
		t.Fatal("no sections in report")
	}
}

func TestAnnualReportCacheInvalidation(t *testing.T) {
	repo := newTestRepo(t)
	reports := NewReportService(repo, time.Minute)
	costs := NewCostService(repo, reports.InvalidateYear)
	ctx := context.Background()

	if _, err := costs.SaveCost(ctx, core.MonthlyCost{
		CategoryID: "contratos", Year: 2024, Month: 1, Value: core.Money{Cents: 100000},
	}); err != nil {
		t.Fatalf("SaveCost: %v", err)
	}

	first, err := reports.AnnualReport(ctx, 2024)
	if err != nil {
		t.Fatalf("AnnualReport: %v", err)
	}
	if first.Revenue.Annual != 100000 {
		t.Fatalf("revenue = %d, want 100000", first.Revenue.Annual)
	}

	// a write through the service must drop the cached report
	if _, err := costs.SaveCost(ctx, core.MonthlyCost{
		CategoryID: "contratos", Year: 2024, Month: 2, Value: core.Money{Cents: 50000},
	}); err != nil {
		t.Fatalf("SaveCost: %v", err)
	}

	second, err := reports.AnnualReport(ctx, 2024)
	if err != nil {
		t.Fatalf("AnnualReport: %v", err)
	}
	if second.Revenue.Annual != 150000 {
		t.Errorf("revenue after invalidation = %d, want 150000", second.Revenue.Annual)
	}
}

func TestAnnualReportServesCachedCopy(t *testing.T) {
	repo := newTestRepo(t)
	reports := NewReportService(repo, time.Minute)
	ctx := context.Background()

	// write directly to storage, bypassing invalidation
	if _, err := repo.UpsertCost(ctx, core.MonthlyCost{
		CategoryID: "contratos", Year: 2024, Month: 1, Value: core.Money{Cents: 100000},
	}); err != nil {
		t.Fatalf("UpsertCost: %v", err)
	}

	first, err := reports.AnnualReport(ctx, 2024)
	if err != nil {
		t.Fatalf("AnnualReport: %v", err)
	}

	if _, err := repo.UpsertCost(ctx, core.MonthlyCost{
		CategoryID: "contratos", Year: 2024, Month: 2, Value: core.Money{Cents: 999900},
	}); err != nil {
		t.Fatalf("UpsertCost: %v", err)
	}

	cached, err := reports.AnnualReport(ctx, 2024)
	if err != nil {
		t.Fatalf("AnnualReport: %v", err)
	}
	if cached.Revenue.Annual != first.Revenue.Annual {
		t.Errorf("cache missed: %d vs %d", cached.Revenue.Annual, first.Revenue.Annual)
	}

	reports.InvalidateYear(2024)
	fresh, err := reports.AnnualReport(ctx, 2024)
	if err != nil {
		t.Fatalf("AnnualReport: %v", err)
	}
	if fresh.Revenue.Annual != 1099900 {
		t.Errorf("fresh revenue = %d, want 1099900", fresh.Revenue.Annual)
	}
}

func TestAnnualReportRejectsBadYear(t *testing.T) {
	reports := NewReportService(newTestRepo(t), time.Minute)

	if _, err := reports.AnnualReport(context.Background(), 1800); err == nil {
		t.Error("expected error for out-of-range year")
	}
}
