package core

// MonthsPerYear is the width of every monthly totals array.
const MonthsPerYear = 12

// SectionTotal is a derived, never persisted aggregate: one named grouping
// of categories with its 12 monthly sums and the annual sum, all in cents.
// Kind carries the sign convention for presentation; the magnitudes here
// are always unsigned.
type SectionTotal struct {
	Section string
	Kind    CategoryKind
	Monthly [MonthsPerYear]int64
	Annual  int64
}

// GrandTotal is the element-wise sum across categories.
type GrandTotal struct {
	Monthly [MonthsPerYear]int64
	Annual  int64
}

// AnnualReport is the full derived view for one year: per-section totals
// plus the profit lines, recomputed on every read.
type AnnualReport struct {
	Year                 int
	Sections             []SectionTotal
	Revenue              GrandTotal
	Expense              GrandTotal
	OperationalProfit    [MonthsPerYear]int64
	NonOperationalResult [MonthsPerYear]int64
	NetProfit            [MonthsPerYear]int64
}

// GroupByCategory partitions rows by category identifier. When a catalog
// is supplied, every catalog category appears in the result even with no
// rows, which the fixed-category report views rely on.
func GroupByCategory(rows []MonthlyCost, catalog []Category) map[string][]MonthlyCost {
	grouped := make(map[string][]MonthlyCost, len(catalog))
	for _, c := range catalog {
		grouped[c.ID] = []MonthlyCost{}
	}
	for _, r := range rows {
		grouped[r.CategoryID] = append(grouped[r.CategoryID], r)
	}
	return grouped
}

// MonthlyTotals sums a single category's rows per month. Months without a
// row total zero; out-of-range months are skipped rather than panicking.
func MonthlyTotals(rows []MonthlyCost) [MonthsPerYear]int64 {
	var totals [MonthsPerYear]int64
	for _, r := range rows {
		if r.Month < 1 || r.Month > MonthsPerYear {
			continue
		}
		totals[r.Month-1] += r.Value.Cents
	}
	return totals
}

// GrandTotals sums per-category monthly arrays element-wise and derives
// the annual figure.
func GrandTotals(perCategory [][MonthsPerYear]int64) GrandTotal {
	var g GrandTotal
	for _, monthly := range perCategory {
		for m, v := range monthly {
			g.Monthly[m] += v
			g.Annual += v
		}
	}
	return g
}

// BuildAnnualReport aggregates one year of rows against the category
// catalog. Sign is applied here and only here: stored values are unsigned
// magnitudes, revenue adds and expense subtracts in the derived lines.
func BuildAnnualReport(year int, rows []MonthlyCost, catalog []Category) AnnualReport {
	report := AnnualReport{Year: year}
	grouped := GroupByCategory(rows, catalog)

	sections := make(map[string]*SectionTotal)
	var order []string
	catByID := make(map[string]Category, len(catalog))
	for _, c := range catalog {
		catByID[c.ID] = c
		if _, ok := sections[c.Section]; !ok {
			sections[c.Section] = &SectionTotal{Section: c.Section, Kind: c.Kind}
			order = append(order, c.Section)
		}
	}

	var opRevenue, opExpense, nonOpRevenue, nonOpExpense [MonthsPerYear]int64
	for id, catRows := range grouped {
		cat, ok := catByID[id]
		if !ok {
			// Rows for retired categories still count toward the grand
			// totals but have no section to render under.
			cat = Category{ID: id, Kind: KindExpense, Operational: true}
		}
		monthly := MonthlyTotals(catRows)

		if sec := sections[cat.Section]; sec != nil {
			for m, v := range monthly {
				sec.Monthly[m] += v
				sec.Annual += v
			}
		}
		for m, v := range monthly {
			switch {
			case cat.Kind == KindRevenue && cat.Operational:
				opRevenue[m] += v
			case cat.Kind == KindRevenue:
				nonOpRevenue[m] += v
			case cat.Operational:
				opExpense[m] += v
			default:
				nonOpExpense[m] += v
			}
		}
	}

	for _, name := range order {
		report.Sections = append(report.Sections, *sections[name])
	}
	for m := 0; m < MonthsPerYear; m++ {
		report.Revenue.Monthly[m] = opRevenue[m] + nonOpRevenue[m]
		report.Revenue.Annual += report.Revenue.Monthly[m]
		report.Expense.Monthly[m] = opExpense[m] + nonOpExpense[m]
		report.Expense.Annual += report.Expense.Monthly[m]

		report.OperationalProfit[m] = opRevenue[m] - opExpense[m]
		report.NonOperationalResult[m] = nonOpRevenue[m] - nonOpExpense[m]
		report.NetProfit[m] = report.OperationalProfit[m] + report.NonOperationalResult[m]
	}
	return report
}
