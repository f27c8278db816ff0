package services

import (
	"context"
	"strings"
	"testing"
)

func TestImportCostsCSV(t *testing.T) {
	repo := newTestRepo(t)
	costs := NewCostService(repo, nil)
	svc := NewImportService(costs)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"category,year,month,value,description",
		"folha,2024,1,15000.00,salarios de janeiro",
		"aluguel,2024,1,2500.50",
		`marketing,2024,2,"1200,00",campanha`,
		"software,2024,3,0",
	}, "\n")

	summary, err := svc.ImportCostsCSV(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCostsCSV: %v", err)
	}
	if summary.Saved != 3 {
		t.Errorf("saved = %d, want 3", summary.Saved)
	}
	if summary.Cleared != 1 {
		t.Errorf("cleared = %d, want 1", summary.Cleared)
	}
	if summary.Failed != 0 {
		t.Errorf("failed = %d, errors = %v", summary.Failed, summary.Errors)
	}

	rows, err := costs.ListYear(ctx, 2024)
	if err != nil {
		t.Fatalf("ListYear: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	byCategory := map[string]int64{}
	for _, r := range rows {
		byCategory[r.CategoryID] = r.Value.Cents
	}
	if byCategory["folha"] != 1500000 {
		t.Errorf("folha = %d, want 1500000", byCategory["folha"])
	}
	if byCategory["aluguel"] != 250050 {
		t.Errorf("aluguel = %d, want 250050", byCategory["aluguel"])
	}
	if byCategory["marketing"] != 120000 {
		t.Errorf("marketing = %d, want 120000", byCategory["marketing"])
	}
}

func TestImportCostsCSVCollectsRowErrors(t *testing.T) {
	svc := NewImportService(NewCostService(newTestRepo(t), nil))

	csvData := strings.Join([]string{
		"folha,2024,1,1500.00",
		"folha,2024",             // too few fields
		"folha,abcd,1,100",       // bad year
		"folha,2024,13,100",      // bad month
		"folha,2024,2,abc",       // bad value
		",2024,2,100",            // empty category
		"aluguel,2024,2,2500.00", // fine again
	}, "\n")

	summary, err := svc.ImportCostsCSV(context.Background(), strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCostsCSV: %v", err)
	}
	if summary.Saved != 2 {
		t.Errorf("saved = %d, want 2", summary.Saved)
	}
	if summary.Failed != 5 {
		t.Errorf("failed = %d, want 5; errors = %v", summary.Failed, summary.Errors)
	}
	for _, msg := range summary.Errors {
		if !strings.HasPrefix(msg, "line ") {
			t.Errorf("error without line number: %q", msg)
		}
	}
}

func TestImportCostsCSVZeroClearsExisting(t *testing.T) {
	repo := newTestRepo(t)
	costs := NewCostService(repo, nil)
	svc := NewImportService(costs)
	ctx := context.Background()

	first := "impostos,2024,4,800.00"
	if _, err := svc.ImportCostsCSV(ctx, strings.NewReader(first)); err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := `impostos,2024,4,"0,00"`
	summary, err := svc.ImportCostsCSV(ctx, strings.NewReader(second))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Cleared != 1 {
		t.Errorf("cleared = %d, want 1", summary.Cleared)
	}

	rows, _ := costs.ListYear(ctx, 2024)
	if len(rows) != 0 {
		t.Errorf("rows after clearing import = %+v", rows)
	}
}
