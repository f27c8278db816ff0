package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gestor/internal/core"
)

// ImportSummary reports what a CSV import did per row.
type ImportSummary struct {
	Saved   int
	Cleared int
	Failed  int
	Errors  []string
}

// ImportService bulk-loads monthly costs from CSV. Each row goes through
// the same save path as the API, so zero values clear rows here too.
type ImportService struct {
	costs *CostService
}

func NewImportService(costs *CostService) *ImportService {
	return &ImportService{costs: costs}
}

// ImportCostsCSV reads rows of the form
//
//	category,year,month,value[,description[,notes]]
//
// An optional header row is skipped. Rows that fail keep the import
// going; the summary lists every failure with its line number.
func (s *ImportService) ImportCostsCSV(ctx context.Context, r io.Reader) (ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var summary ImportSummary
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if line == 1 && isHeaderRow(record) {
			continue
		}

		cost, err := parseCostRecord(record)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		outcome, err := s.costs.SaveCost(ctx, cost)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if outcome == CostCleared {
			summary.Cleared++
		} else {
			summary.Saved++
		}
	}

	slog.InfoContext(ctx, "CSV import finished",
		"saved", summary.Saved,
		"cleared", summary.Cleared,
		"failed", summary.Failed)

	return summary, nil
}

func isHeaderRow(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "category")
}

func parseCostRecord(record []string) (core.MonthlyCost, error) {
	if len(record) < 4 {
		return core.MonthlyCost{}, fmt.Errorf("expected at least 4 fields, got %d", len(record))
	}

	year, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return core.MonthlyCost{}, fmt.Errorf("invalid year %q", record[1])
	}
	month, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return core.MonthlyCost{}, fmt.Errorf("invalid month %q", record[2])
	}
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(record[3]))
	if err != nil {
		return core.MonthlyCost{}, fmt.Errorf("invalid value %q: %w", record[3], err)
	}

	cost := core.MonthlyCost{
		CategoryID: strings.TrimSpace(record[0]),
		Year:       year,
		Month:      month,
		Value:      core.Money{Cents: cents},
	}
	if len(record) > 4 {
		cost.Description = strings.TrimSpace(record[4])
	}
	if len(record) > 5 {
		cost.Notes = strings.TrimSpace(record[5])
	}
	return cost, nil
}
