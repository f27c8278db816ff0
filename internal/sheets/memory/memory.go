package memory

import (
	"context"
	"fmt"
	"sync"

	"gestor/internal/core"
)

// AuditRow is one stored audit event.
type AuditRow struct {
	Kind       string
	Contract   core.Contract
	Adjustment core.Adjustment
}

// Store keeps audit rows in memory. Used in tests and when no
// spreadsheet is configured.
type Store struct {
	mu   sync.Mutex
	rows []AuditRow
}

func New() *Store {
	return &Store{}
}

func (s *Store) AppendAdjustment(_ context.Context, contract core.Contract, adj core.Adjustment) (string, error) {
	if err := adj.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, AuditRow{Kind: "reajuste", Contract: contract, Adjustment: adj})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

func (s *Store) AppendRenewal(_ context.Context, contract core.Contract) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, AuditRow{Kind: "renovacao", Contract: contract})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the stored audit trail.
func (s *Store) Rows() []AuditRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AuditRow(nil), s.rows...)
}
