package services

import (
	"context"
	"fmt"
	"log/slog"

	"gestor/internal/core"
	"gestor/internal/storage"
)

// CostOutcome says what a save actually did to the stored row.
type CostOutcome string

const (
	CostSaved   CostOutcome = "saved"
	CostCleared CostOutcome = "cleared"
)

// CostService owns writes and reads of the monthly cost grid.
type CostService struct {
	storage    *storage.SQLiteRepository
	invalidate func(year int)
}

// NewCostService creates the service. invalidate is called with the
// affected year after every successful write; nil disables invalidation.
func NewCostService(repo *storage.SQLiteRepository, invalidate func(year int)) *CostService {
	return &CostService{
		storage:    repo,
		invalidate: invalidate,
	}
}

// SaveCost persists one (category, year, month) cell. A zero value always
// deletes the row, regardless of whether it exists; any positive value
// inserts or overwrites it.
func (s *CostService) SaveCost(ctx context.Context, c core.MonthlyCost) (CostOutcome, error) {
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("validate cost: %w", err)
	}

	outcome := CostSaved
	if c.Value.Cents == 0 {
		if err := s.storage.DeleteCost(ctx, c.CategoryID, c.Year, c.Month); err != nil {
			return "", err
		}
		outcome = CostCleared
	} else {
		if _, err := s.storage.UpsertCost(ctx, c); err != nil {
			return "", err
		}
	}

	if s.invalidate != nil {
		s.invalidate(c.Year)
	}

	slog.DebugContext(ctx, "Cost write applied",
		"category", c.CategoryID,
		"year", c.Year,
		"month", c.Month,
		"outcome", string(outcome))

	return outcome, nil
}

// ListYear returns all cost rows of one year.
func (s *CostService) ListYear(ctx context.Context, year int) ([]core.MonthlyCost, error) {
	if year < 2000 || year > 2100 {
		return nil, core.ErrInvalidYear
	}
	return s.storage.ListCostsByYear(ctx, year)
}

// Categories returns the fixed category catalog.
func (s *CostService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.storage.ListCategories(ctx)
}
