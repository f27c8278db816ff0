package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Proration deliberately runs on fixed period lengths instead of calendar
// spans: contracts are quoted in round monthly/semestral/annual terms and
// the breakdown shown to the client has to match that mental model. The
// divisors are constants, never derived from the dates involved.
const (
	monthlyProrationDays = 30
	semestralPeriodDays  = 183
	annualPeriodDays     = 365
)

// MonthlyProrationResult is the split of one billing window between the
// old and the new plan value. Fallback marks a degraded result computed
// after an input failure (the caller also receives the error); a fallback
// behaves as if no change happened.
type MonthlyProrationResult struct {
	OldPortion             decimal.Decimal
	NewPortion             decimal.Decimal
	Total                  decimal.Decimal
	DaysOld                int
	DaysNew                int
	NextPaymentDate        Date
	ChargeAppliesNextMonth bool
	Fallback               bool
}

// PeriodProrationResult is the incremental charge (or credit) for the
// remainder of a semestral or annual period after a plan change.
type PeriodProrationResult struct {
	ProportionalDifference   decimal.Decimal
	RemainingDays            int
	TotalPeriodDays          int
	AlreadyPaidValue         decimal.Decimal
	NewPlanProportionalValue decimal.Decimal
	Description              string
	Fallback                 bool
}

// PeriodDays returns the fixed proration constant for a plan.
func PeriodDays(plan PlanType) int {
	switch plan {
	case PlanSemestral:
		return semestralPeriodDays
	case PlanAnnual:
		return annualPeriodDays
	default:
		return monthlyProrationDays
	}
}

// MonthlyProration splits the current billing window of a monthly contract
// between the old and new values. The window is the half-open interval
// from the day after the last payment-day occurrence through the next
// payment-day occurrence; days before changeDate bill at oldValue, the
// change day onward at newValue, both against a fixed 30-day divisor.
//
// now is only consulted for ChargeAppliesNextMonth (whether the next
// payment date falls in a later calendar month than today).
func MonthlyProration(now time.Time, changeDateText string, paymentDay int, oldValue, newValue Money) (MonthlyProrationResult, error) {
	fallback := MonthlyProrationResult{
		OldPortion: oldValue.Decimal(),
		Total:      oldValue.Decimal(),
		DaysOld:    monthlyProrationDays,
		Fallback:   true,
	}

	change, err := ParseFlexibleDate(changeDateText)
	if err != nil {
		return fallback, fmt.Errorf("change date: %w", err)
	}
	if paymentDay < 1 || paymentDay > 31 {
		return fallback, ErrInvalidPayDay
	}

	lastPay, nextPay := paymentWindow(change.Time, paymentDay)
	windowStart := lastPay.AddDate(0, 0, 1)

	daysOld := int(change.Time.Sub(windowStart).Hours() / 24)
	if daysOld < 0 {
		daysOld = 0
	}
	daysNew := int(nextPay.Sub(change.Time).Hours()/24) + 1
	if daysNew < 0 {
		daysNew = 0
	}

	divisor := decimal.NewFromInt(monthlyProrationDays)
	oldPortion := oldValue.Decimal().Mul(decimal.NewFromInt(int64(daysOld))).Div(divisor)
	newPortion := newValue.Decimal().Mul(decimal.NewFromInt(int64(daysNew))).Div(divisor)

	return MonthlyProrationResult{
		OldPortion:      oldPortion,
		NewPortion:      newPortion,
		Total:           oldPortion.Add(newPortion),
		DaysOld:         daysOld,
		DaysNew:         daysNew,
		NextPaymentDate: Date{Time: nextPay},
		ChargeAppliesNextMonth: nextPay.Year() > now.Year() ||
			(nextPay.Year() == now.Year() && nextPay.Month() > now.Month()),
	}, nil
}

// paymentWindow returns the payment-day occurrence on or before ref and
// the one strictly after it. A payment day beyond the end of a month
// clamps to that month's last day.
func paymentWindow(ref time.Time, paymentDay int) (last, next time.Time) {
	occurrence := func(year int, month time.Month) time.Time {
		day := paymentDay
		if lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > lastDay {
			day = lastDay
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	// Neighbor months are derived from the first of the month so the
	// day component cannot overflow a short month before clamping runs.
	thisMonth := occurrence(ref.Year(), ref.Month())
	if ref.After(thisMonth) {
		last = thisMonth
		nextFirst := time.Date(ref.Year(), ref.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		next = occurrence(nextFirst.Year(), nextFirst.Month())
	} else {
		prevFirst := time.Date(ref.Year(), ref.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		last = occurrence(prevFirst.Year(), prevFirst.Month())
		next = thisMonth
	}
	return last, next
}

// PeriodProration computes the incremental difference owed for the rest of
// a semestral or annual period when the plan value changes mid-period.
// The client already paid the old value for the whole period, so only the
// per-day difference times the remaining days is charged (or credited).
func PeriodProration(changeDateText, renewalDateText string, oldValue, newValue Money, plan PlanType) (PeriodProrationResult, error) {
	periodDays := PeriodDays(plan)
	fallback := PeriodProrationResult{
		ProportionalDifference: newValue.Decimal().Sub(oldValue.Decimal()),
		TotalPeriodDays:        periodDays,
		AlreadyPaidValue:       oldValue.Decimal(),
		Description:            "valores nao puderam ser rateados; diferenca integral aplicada",
		Fallback:               true,
	}

	if plan != PlanSemestral && plan != PlanAnnual {
		return fallback, fmt.Errorf("plan %q has no period proration", plan)
	}
	change, err := ParseFlexibleDate(changeDateText)
	if err != nil {
		return fallback, fmt.Errorf("change date: %w", err)
	}
	renewal, err := ParseFlexibleDate(renewalDateText)
	if err != nil {
		return fallback, fmt.Errorf("renewal date: %w", err)
	}

	remaining := int(renewal.Time.Sub(change.Time).Hours() / 24)
	if remaining < 0 {
		remaining = 0
	}

	divisor := decimal.NewFromInt(int64(periodDays))
	oldDaily := oldValue.Decimal().Div(divisor)
	newDaily := newValue.Decimal().Div(divisor)
	diff := newDaily.Sub(oldDaily).Mul(decimal.NewFromInt(int64(remaining)))
	newProportional := newDaily.Mul(decimal.NewFromInt(int64(remaining)))

	desc := fmt.Sprintf(
		"valor ja pago: R$ %s; diferenca diaria: R$ %s; %d dias restantes de %d; valor a cobrar: R$ %s",
		oldValue.Decimal().StringFixed(2),
		newDaily.Sub(oldDaily).StringFixed(4),
		remaining, periodDays,
		diff.StringFixed(2),
	)

	return PeriodProrationResult{
		ProportionalDifference:   diff,
		RemainingDays:            remaining,
		TotalPeriodDays:          periodDays,
		AlreadyPaidValue:         oldValue.Decimal(),
		NewPlanProportionalValue: newProportional,
		Description:              desc,
	}, nil
}
