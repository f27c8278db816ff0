package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gestor/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- monthly costs ---

// UpsertCost writes one (category, year, month) cell, updating in place
// when the row already exists. Callers enforce the zero-deletes policy
// before reaching here; a zero value in this method is an error.
func (r *SQLiteRepository) UpsertCost(ctx context.Context, c core.MonthlyCost) (int64, error) {
	if c.Value.Cents <= 0 {
		return 0, core.ErrInvalidAmount
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO monthly_costs (category_id, year, month, value_cents, description, notes, is_projection)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category_id, year, month) DO UPDATE SET
			value_cents = excluded.value_cents,
			description = excluded.description,
			notes = excluded.notes,
			is_projection = excluded.is_projection,
			updated_at = CURRENT_TIMESTAMP`,
		c.CategoryID, c.Year, c.Month, c.Value.Cents, c.Description, c.Notes, boolToInt(c.IsProjection))
	if err != nil {
		return 0, fmt.Errorf("upsert monthly cost: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		id = 0
	}

	slog.InfoContext(ctx, "Monthly cost saved",
		"category", c.CategoryID,
		"year", c.Year,
		"month", c.Month,
		"value_cents", c.Value.Cents,
		"projection", c.IsProjection)

	return id, nil
}

// DeleteCost removes the (category, year, month) cell. Deleting an absent
// row is not an error.
func (r *SQLiteRepository) DeleteCost(ctx context.Context, categoryID string, year, month int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM monthly_costs WHERE category_id = ? AND year = ? AND month = ?`,
		categoryID, year, month)
	if err != nil {
		return fmt.Errorf("delete monthly cost: %w", err)
	}
	slog.InfoContext(ctx, "Monthly cost cleared",
		"category", categoryID, "year", year, "month", month)
	return nil
}

func (r *SQLiteRepository) GetCost(ctx context.Context, categoryID string, year, month int) (*core.MonthlyCost, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, category_id, year, month, value_cents, description, notes, is_projection
		FROM monthly_costs
		WHERE category_id = ? AND year = ? AND month = ?`,
		categoryID, year, month)
	c, err := scanCost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get monthly cost: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCostsByYear(ctx context.Context, year int) ([]core.MonthlyCost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, year, month, value_cents, description, notes, is_projection
		FROM monthly_costs
		WHERE year = ?
		ORDER BY category_id, month`, year)
	if err != nil {
		return nil, fmt.Errorf("list monthly costs: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyCost
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monthly cost: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCostsByCategory(ctx context.Context, categoryID string, year int) ([]core.MonthlyCost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, year, month, value_cents, description, notes, is_projection
		FROM monthly_costs
		WHERE category_id = ? AND year = ?
		ORDER BY month`, categoryID, year)
	if err != nil {
		return nil, fmt.Errorf("list category costs: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyCost
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category cost: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCost(s rowScanner) (*core.MonthlyCost, error) {
	var c core.MonthlyCost
	var projection int
	if err := s.Scan(&c.ID, &c.CategoryID, &c.Year, &c.Month, &c.Value.Cents,
		&c.Description, &c.Notes, &projection); err != nil {
		return nil, err
	}
	c.IsProjection = projection != 0
	return &c, nil
}

// --- categories ---

// ListCategories returns the fixed catalog in section order. Categories
// are managed via migrations, never through the API.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, section, kind, operational FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var operational int
		if err := rows.Scan(&c.ID, &c.Name, &c.Section, (*string)(&c.Kind), &operational); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Operational = operational != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- contracts ---

func (r *SQLiteRepository) CreateContract(ctx context.Context, c core.Contract) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contracts (id, client_name, cnae, segment, monthly_value_cents, plan,
			start_date, renewal_date, payment_day, trial_days, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.ClientName, c.CNAE, c.Segment, c.MonthlyValue.Cents, string(c.Plan),
		c.StartDate.Format(dateLayout), c.RenewalDate.Format(dateLayout),
		c.PaymentDay, c.TrialDays, string(c.Status))
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}

	slog.InfoContext(ctx, "Contract created",
		"id", c.ID,
		"client", c.ClientName,
		"plan", c.Plan,
		"monthly_value_cents", c.MonthlyValue.Cents)

	return nil
}

func (r *SQLiteRepository) GetContract(ctx context.Context, id uuid.UUID) (*core.Contract, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_name, cnae, segment, monthly_value_cents, plan,
			start_date, renewal_date, payment_day, trial_days, status
		FROM contracts WHERE id = ?`, id.String())
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListContracts(ctx context.Context, status core.ContractStatus) ([]core.Contract, error) {
	query := `
		SELECT id, client_name, cnae, segment, monthly_value_cents, plan,
			start_date, renewal_date, payment_day, trial_days, status
		FROM contracts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY client_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var out []core.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListContractsDueForRenewal returns active contracts whose renewal date
// is on or before asOf.
func (r *SQLiteRepository) ListContractsDueForRenewal(ctx context.Context, asOf time.Time) ([]core.Contract, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_name, cnae, segment, monthly_value_cents, plan,
			start_date, renewal_date, payment_day, trial_days, status
		FROM contracts
		WHERE status = 'active' AND renewal_date <= ?
		ORDER BY renewal_date`, asOf.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list due contracts: %w", err)
	}
	defer rows.Close()

	var out []core.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due contract: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateContractBilling sets the contract's current value and renewal
// anchor after an adjustment was applied.
func (r *SQLiteRepository) UpdateContractBilling(ctx context.Context, id uuid.UUID, valueCents int64, renewal core.Date) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts
		SET monthly_value_cents = ?, renewal_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		valueCents, renewal.Format(dateLayout), id.String())
	if err != nil {
		return fmt.Errorf("update contract billing: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateContractRenewal advances only the renewal anchor (used by the
// renewal processor, which does not touch the value).
func (r *SQLiteRepository) UpdateContractRenewal(ctx context.Context, id uuid.UUID, renewal core.Date) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts SET renewal_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		renewal.Format(dateLayout), id.String())
	if err != nil {
		return fmt.Errorf("update contract renewal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanContract(s rowScanner) (*core.Contract, error) {
	var c core.Contract
	var id, plan, status, start, renewal string
	if err := s.Scan(&id, &c.ClientName, &c.CNAE, &c.Segment, &c.MonthlyValue.Cents,
		&plan, &start, &renewal, &c.PaymentDay, &c.TrialDays, &status); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse contract id %q: %w", id, err)
	}
	c.ID = parsed
	c.Plan = core.PlanType(plan)
	c.Status = core.ContractStatus(status)
	if t, err := time.Parse(dateLayout, start); err == nil {
		c.StartDate = core.Date{Time: t}
	}
	if t, err := time.Parse(dateLayout, renewal); err == nil {
		c.RenewalDate = core.Date{Time: t}
	}
	return &c, nil
}

// --- adjustments ---

// AppendAdjustment writes one audit entry. The history is append-only;
// there is no update or delete path.
func (r *SQLiteRepository) AppendAdjustment(ctx context.Context, a core.Adjustment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO adjustments (contract_id, previous_cents, new_cents, effective_date, difference_cents, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ContractID.String(), a.PreviousValue.Cents, a.NewValue.Cents,
		a.EffectiveDate.Format(dateLayout), a.Difference.Cents, a.Note)
	if err != nil {
		return 0, fmt.Errorf("append adjustment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("adjustment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Adjustment recorded",
		"id", id,
		"contract", a.ContractID,
		"previous_cents", a.PreviousValue.Cents,
		"new_cents", a.NewValue.Cents,
		"effective", a.EffectiveDate.Format(dateLayout))

	return id, nil
}

func (r *SQLiteRepository) GetAdjustment(ctx context.Context, id int64) (*core.Adjustment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, contract_id, previous_cents, new_cents, effective_date, difference_cents, note
		FROM adjustments WHERE id = ?`, id)
	a, err := scanAdjustment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAdjustments(ctx context.Context, contractID uuid.UUID) ([]core.Adjustment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, contract_id, previous_cents, new_cents, effective_date, difference_cents, note
		FROM adjustments
		WHERE contract_id = ?
		ORDER BY created_at, id`, contractID.String())
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []core.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAdjustment(s rowScanner) (*core.Adjustment, error) {
	var a core.Adjustment
	var contractID, effective string
	if err := s.Scan(&a.ID, &contractID, &a.PreviousValue.Cents, &a.NewValue.Cents,
		&effective, &a.Difference.Cents, &a.Note); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(contractID)
	if err != nil {
		return nil, fmt.Errorf("parse adjustment contract id %q: %w", contractID, err)
	}
	a.ContractID = parsed
	if t, err := time.Parse(dateLayout, effective); err == nil {
		a.EffectiveDate = core.Date{Time: t}
	}
	return &a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
