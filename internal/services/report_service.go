package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gestor/internal/cache"
	"gestor/internal/core"
	"gestor/internal/storage"
)

const reportCacheSize = 16

// ReportService builds the annual report and caches it per year. The
// cache is invalidated by cost writes through InvalidateYear.
type ReportService struct {
	storage *storage.SQLiteRepository
	cache   *cache.LRUCache[core.AnnualReport]
}

func NewReportService(repo *storage.SQLiteRepository, ttl time.Duration) *ReportService {
	return &ReportService{
		storage: repo,
		cache:   cache.NewLRUCache[core.AnnualReport](reportCacheSize, ttl),
	}
}

// AnnualReport returns the full yearly view: per-section monthly totals,
// grand totals and the profit lines.
func (s *ReportService) AnnualReport(ctx context.Context, year int) (core.AnnualReport, error) {
	if year < 2000 || year > 2100 {
		return core.AnnualReport{}, core.ErrInvalidYear
	}

	key := reportCacheKey(year)
	if report, ok := s.cache.Get(key); ok {
		return report, nil
	}

	// Rows and catalog come from independent tables; fetch them
	// concurrently.
	var (
		rows    []core.MonthlyCost
		catalog []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.storage.ListCostsByYear(gctx, year)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.storage.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.AnnualReport{}, fmt.Errorf("load report data: %w", err)
	}

	report := core.BuildAnnualReport(year, rows, catalog)
	s.cache.Set(key, report)
	return report, nil
}

// InvalidateYear drops every cached report for the year.
func (s *ReportService) InvalidateYear(year int) {
	s.cache.DeletePrefix(reportCacheKey(year))
}

// RegisterCache hooks the report cache into the cleanup manager.
func (s *ReportService) RegisterCache(m *cache.Manager) {
	m.Register(s.cache)
}

func reportCacheKey(year int) string {
	return fmt.Sprintf("report:%d", year)
}
