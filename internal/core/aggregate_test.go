package core

import "testing"

func TestMonthlyTotals(t *testing.T) {
	rows := []MonthlyCost{
		{CategoryID: "rent", Year: 2024, Month: 1, Value: Money{Cents: 1000}},
		{CategoryID: "rent", Year: 2024, Month: 2, Value: Money{Cents: 1000}},
	}
	totals := MonthlyTotals(rows)
	want := [MonthsPerYear]int64{1000, 1000}
	if totals != want {
		t.Fatalf("monthly totals: got %v, want %v", totals, want)
	}

	var annual int64
	for _, v := range totals {
		annual += v
	}
	if annual != 2000 {
		t.Fatalf("annual: got %d, want 2000", annual)
	}
}

func TestMonthlyTotalsSkipsBadMonths(t *testing.T) {
	rows := []MonthlyCost{
		{CategoryID: "rent", Month: 0, Value: Money{Cents: 500}},
		{CategoryID: "rent", Month: 13, Value: Money{Cents: 500}},
		{CategoryID: "rent", Month: 12, Value: Money{Cents: 700}},
	}
	totals := MonthlyTotals(rows)
	if totals[11] != 700 {
		t.Fatalf("december: got %d, want 700", totals[11])
	}
	var sum int64
	for _, v := range totals {
		sum += v
	}
	if sum != 700 {
		t.Fatalf("out-of-range months must be ignored, sum %d", sum)
	}
}

func TestGrandTotalsEmpty(t *testing.T) {
	g := GrandTotals(nil)
	if g.Annual != 0 {
		t.Fatalf("annual: got %d, want 0", g.Annual)
	}
	for m, v := range g.Monthly {
		if v != 0 {
			t.Fatalf("month %d: got %d, want 0", m+1, v)
		}
	}
}

func TestGrandTotals(t *testing.T) {
	a := [MonthsPerYear]int64{100, 200}
	b := [MonthsPerYear]int64{50, 0, 25}
	g := GrandTotals([][MonthsPerYear]int64{a, b})
	if g.Monthly[0] != 150 || g.Monthly[1] != 200 || g.Monthly[2] != 25 {
		t.Fatalf("monthly: got %v", g.Monthly)
	}
	if g.Annual != 375 {
		t.Fatalf("annual: got %d, want 375", g.Annual)
	}
}

func TestGroupByCategoryKeepsEmptyCatalogEntries(t *testing.T) {
	catalog := []Category{
		{ID: "rent", Section: "Administrativo", Kind: KindExpense, Operational: true},
		{ID: "fees", Section: "Impostos", Kind: KindExpense, Operational: true},
	}
	rows := []MonthlyCost{
		{CategoryID: "rent", Month: 1, Value: Money{Cents: 1000}},
		{CategoryID: "stray", Month: 1, Value: Money{Cents: 10}},
	}
	grouped := GroupByCategory(rows, catalog)
	if got, ok := grouped["fees"]; !ok || len(got) != 0 {
		t.Fatalf("catalog category with no rows must appear with an empty list, got %v ok=%v", got, ok)
	}
	if len(grouped["rent"]) != 1 {
		t.Fatalf("rent rows: got %d, want 1", len(grouped["rent"]))
	}
	if len(grouped["stray"]) != 1 {
		t.Fatalf("non-catalog rows still group, got %d", len(grouped["stray"]))
	}
}

func TestBuildAnnualReportProfitLines(t *testing.T) {
	catalog := []Category{
		{ID: "sales", Section: "Receitas", Kind: KindRevenue, Operational: true},
		{ID: "rent", Section: "Administrativo", Kind: KindExpense, Operational: true},
		{ID: "interest", Section: "Resultado Financeiro", Kind: KindRevenue, Operational: false},
		{ID: "fines", Section: "Resultado Financeiro", Kind: KindExpense, Operational: false},
	}
	rows := []MonthlyCost{
		{CategoryID: "sales", Year: 2024, Month: 1, Value: Money{Cents: 500000}},
		{CategoryID: "rent", Year: 2024, Month: 1, Value: Money{Cents: 200000}},
		{CategoryID: "interest", Year: 2024, Month: 1, Value: Money{Cents: 30000}},
		{CategoryID: "fines", Year: 2024, Month: 1, Value: Money{Cents: 10000}},
	}
	report := BuildAnnualReport(2024, rows, catalog)

	if report.OperationalProfit[0] != 300000 {
		t.Fatalf("operational profit: got %d, want 300000", report.OperationalProfit[0])
	}
	if report.NonOperationalResult[0] != 20000 {
		t.Fatalf("non-operational result: got %d, want 20000", report.NonOperationalResult[0])
	}
	if report.NetProfit[0] != 320000 {
		t.Fatalf("net profit: got %d, want 320000", report.NetProfit[0])
	}

	// Stored magnitudes stay unsigned; only derived lines carry sign.
	if report.Revenue.Monthly[0] != 530000 || report.Expense.Monthly[0] != 210000 {
		t.Fatalf("grand totals: revenue %d expense %d", report.Revenue.Monthly[0], report.Expense.Monthly[0])
	}

	// Every catalog section appears even when some have no rows later in
	// the year.
	if len(report.Sections) != 3 {
		t.Fatalf("sections: got %d, want 3", len(report.Sections))
	}
}

func TestBuildAnnualReportEmptyYear(t *testing.T) {
	catalog := []Category{
		{ID: "sales", Section: "Receitas", Kind: KindRevenue, Operational: true},
	}
	report := BuildAnnualReport(2024, nil, catalog)
	if report.Revenue.Annual != 0 || report.Expense.Annual != 0 {
		t.Fatalf("empty year must total zero: %+v", report)
	}
	for m := 0; m < MonthsPerYear; m++ {
		if report.NetProfit[m] != 0 {
			t.Fatalf("month %d: net profit %d, want 0", m+1, report.NetProfit[m])
		}
	}
}
