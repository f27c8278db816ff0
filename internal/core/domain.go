package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PlanMonthly   PlanType = "monthly"
	PlanSemestral PlanType = "semestral"
	PlanAnnual    PlanType = "annual"
)

const (
	KindRevenue CategoryKind = "revenue"
	KindExpense CategoryKind = "expense"
)

const (
	ContractActive    ContractStatus = "active"
	ContractSuspended ContractStatus = "suspended"
	ContractClosed    ContractStatus = "closed"
)

type (
	PlanType       string
	CategoryKind   string
	ContractStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Category is one entry of the fixed report catalog. Kind decides the
	// sign applied at presentation time; Operational marks whether the
	// category feeds the operational profit line.
	Category struct {
		ID          string
		Name        string
		Section     string
		Kind        CategoryKind
		Operational bool
	}

	// MonthlyCost is one category's spend (or revenue) for one calendar
	// month. Value is an unsigned magnitude; at most one row exists per
	// (category, year, month).
	MonthlyCost struct {
		ID           int64
		CategoryID   string
		Year         int
		Month        int // 1-12
		Value        Money
		Description  string
		Notes        string
		IsProjection bool
	}

	// Contract carries the current billing state of a client contract.
	Contract struct {
		ID           uuid.UUID
		ClientName   string
		CNAE         string
		Segment      string
		MonthlyValue Money
		Plan         PlanType
		StartDate    Date
		RenewalDate  Date
		PaymentDay   int // day of month the client pays
		TrialDays    int
		Status       ContractStatus
	}

	// Adjustment is one entry of a contract's append-only plan-change
	// history.
	Adjustment struct {
		ID            int64
		ContractID    uuid.UUID
		PreviousValue Money
		NewValue      Money
		EffectiveDate Date
		Difference    Money
		Note          string
	}
)

var (
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyClientName = errors.New("empty client name")
	ErrInvalidPlan     = errors.New("invalid plan type")
	ErrInvalidPayDay   = errors.New("invalid payment day")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsEmpty() bool { return d.IsZero() }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as an int (1-12).
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p PlanType) Validate() error {
	switch p {
	case PlanMonthly, PlanSemestral, PlanAnnual:
		return nil
	}
	return ErrInvalidPlan
}

// PeriodMonths returns the billing cadence in months.
func (p PlanType) PeriodMonths() int {
	switch p {
	case PlanSemestral:
		return 6
	case PlanAnnual:
		return 12
	default:
		return 1
	}
}

func (c MonthlyCost) Validate() error {
	if strings.TrimSpace(c.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if c.Year < 2000 || c.Year > 2100 {
		return ErrInvalidYear
	}
	if c.Month < 1 || c.Month > 12 {
		return ErrInvalidMonth
	}
	// Zero is legal on the write path (it deletes the row); negative
	// magnitudes never are.
	if c.Value.Cents < 0 {
		return ErrInvalidAmount
	}
	if len(c.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (c Contract) Validate() error {
	if strings.TrimSpace(c.ClientName) == "" {
		return ErrEmptyClientName
	}
	if err := c.MonthlyValue.Validate(); err != nil {
		return err
	}
	if err := c.Plan.Validate(); err != nil {
		return err
	}
	if err := c.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if c.PaymentDay < 1 || c.PaymentDay > 31 {
		return ErrInvalidPayDay
	}
	if c.TrialDays < 0 {
		return errors.New("trial days cannot be negative")
	}
	return nil
}

func (a Adjustment) Validate() error {
	if a.ContractID == uuid.Nil {
		return errors.New("missing contract id")
	}
	if err := a.PreviousValue.Validate(); err != nil {
		return err
	}
	if err := a.NewValue.Validate(); err != nil {
		return err
	}
	if err := a.EffectiveDate.Validate(); err != nil {
		return errors.New("invalid effective date: " + err.Error())
	}
	if len(a.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}
