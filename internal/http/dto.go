package http

import (
	"gestor/internal/core"
	"gestor/internal/services"
)

const wireDateLayout = "2006-01-02"

// costDTO is the wire shape of one monthly cost cell.
type costDTO struct {
	CategoryID   string `json:"category_id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	ValueCents   int64  `json:"value_cents"`
	Value        string `json:"value"`
	Description  string `json:"description,omitempty"`
	Notes        string `json:"notes,omitempty"`
	IsProjection bool   `json:"is_projection,omitempty"`
}

func toCostDTO(c core.MonthlyCost) costDTO {
	return costDTO{
		CategoryID:   c.CategoryID,
		Year:         c.Year,
		Month:        c.Month,
		ValueCents:   c.Value.Cents,
		Value:        formatReais(c.Value.Cents),
		Description:  c.Description,
		Notes:        c.Notes,
		IsProjection: c.IsProjection,
	}
}

type categoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Section     string `json:"section"`
	Kind        string `json:"kind"`
	Operational bool   `json:"operational"`
}

func toCategoryDTO(c core.Category) categoryDTO {
	return categoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Section:     c.Section,
		Kind:        string(c.Kind),
		Operational: c.Operational,
	}
}

type contractDTO struct {
	ID                string `json:"id"`
	ClientName        string `json:"client_name"`
	CNAE              string `json:"cnae"`
	Segment           string `json:"segment"`
	MonthlyValueCents int64  `json:"monthly_value_cents"`
	MonthlyValue      string `json:"monthly_value"`
	Plan              string `json:"plan"`
	StartDate         string `json:"start_date"`
	RenewalDate       string `json:"renewal_date"`
	PaymentDay        int    `json:"payment_day"`
	TrialDays         int    `json:"trial_days,omitempty"`
	Status            string `json:"status"`
}

func toContractDTO(c core.Contract) contractDTO {
	return contractDTO{
		ID:                c.ID.String(),
		ClientName:        c.ClientName,
		CNAE:              c.CNAE,
		Segment:           c.Segment,
		MonthlyValueCents: c.MonthlyValue.Cents,
		MonthlyValue:      formatReais(c.MonthlyValue.Cents),
		Plan:              string(c.Plan),
		StartDate:         c.StartDate.Format(wireDateLayout),
		RenewalDate:       c.RenewalDate.Format(wireDateLayout),
		PaymentDay:        c.PaymentDay,
		TrialDays:         c.TrialDays,
		Status:            string(c.Status),
	}
}

type adjustmentDTO struct {
	ID                 int64  `json:"id"`
	ContractID         string `json:"contract_id"`
	PreviousValueCents int64  `json:"previous_value_cents"`
	NewValueCents      int64  `json:"new_value_cents"`
	DifferenceCents    int64  `json:"difference_cents"`
	EffectiveDate      string `json:"effective_date"`
	Note               string `json:"note,omitempty"`
}

func toAdjustmentDTO(a core.Adjustment) adjustmentDTO {
	return adjustmentDTO{
		ID:                 a.ID,
		ContractID:         a.ContractID.String(),
		PreviousValueCents: a.PreviousValue.Cents,
		NewValueCents:      a.NewValue.Cents,
		DifferenceCents:    a.Difference.Cents,
		EffectiveDate:      a.EffectiveDate.Format(wireDateLayout),
		Note:               a.Note,
	}
}

type monthlyProrationDTO struct {
	OldPortion             string `json:"old_portion"`
	NewPortion             string `json:"new_portion"`
	Total                  string `json:"total"`
	DaysOld                int    `json:"days_old"`
	DaysNew                int    `json:"days_new"`
	NextPaymentDate        string `json:"next_payment_date"`
	ChargeAppliesNextMonth bool   `json:"charge_applies_next_month"`
	Fallback               bool   `json:"fallback"`
}

func toMonthlyProrationDTO(p core.MonthlyProrationResult) monthlyProrationDTO {
	return monthlyProrationDTO{
		OldPortion:             p.OldPortion.StringFixed(2),
		NewPortion:             p.NewPortion.StringFixed(2),
		Total:                  p.Total.StringFixed(2),
		DaysOld:                p.DaysOld,
		DaysNew:                p.DaysNew,
		NextPaymentDate:        p.NextPaymentDate.Format(wireDateLayout),
		ChargeAppliesNextMonth: p.ChargeAppliesNextMonth,
		Fallback:               p.Fallback,
	}
}

type periodProrationDTO struct {
	ProportionalDifference   string `json:"proportional_difference"`
	RemainingDays            int    `json:"remaining_days"`
	TotalPeriodDays          int    `json:"total_period_days"`
	AlreadyPaidValue         string `json:"already_paid_value"`
	NewPlanProportionalValue string `json:"new_plan_proportional_value"`
	Description              string `json:"description"`
	Fallback                 bool   `json:"fallback"`
}

func toPeriodProrationDTO(p core.PeriodProrationResult) periodProrationDTO {
	return periodProrationDTO{
		ProportionalDifference:   p.ProportionalDifference.StringFixed(2),
		RemainingDays:            p.RemainingDays,
		TotalPeriodDays:          p.TotalPeriodDays,
		AlreadyPaidValue:         p.AlreadyPaidValue.StringFixed(2),
		NewPlanProportionalValue: p.NewPlanProportionalValue.StringFixed(2),
		Description:              p.Description,
		Fallback:                 p.Fallback,
	}
}

type adjustmentResultDTO struct {
	Adjustment     adjustmentDTO        `json:"adjustment"`
	Monthly        *monthlyProrationDTO `json:"monthly_proration,omitempty"`
	Period         *periodProrationDTO  `json:"period_proration,omitempty"`
	NewRenewalDate string               `json:"new_renewal_date"`
}

func toAdjustmentResultDTO(r *services.AdjustmentResult) adjustmentResultDTO {
	dto := adjustmentResultDTO{
		Adjustment:     toAdjustmentDTO(r.Adjustment),
		NewRenewalDate: r.NewRenewalDate.Format(wireDateLayout),
	}
	if r.Monthly != nil {
		m := toMonthlyProrationDTO(*r.Monthly)
		dto.Monthly = &m
	}
	if r.Period != nil {
		p := toPeriodProrationDTO(*r.Period)
		dto.Period = &p
	}
	return dto
}

// sectionDTO carries signed values: revenue sections stay positive,
// expense sections are negated here and only here.
type sectionDTO struct {
	Section string                    `json:"section"`
	Kind    string                    `json:"kind"`
	Monthly [core.MonthsPerYear]int64 `json:"monthly_cents"`
	Annual  int64                     `json:"annual_cents"`
}

type reportDTO struct {
	Year                 int                       `json:"year"`
	Sections             []sectionDTO              `json:"sections"`
	RevenueMonthly       [core.MonthsPerYear]int64 `json:"revenue_monthly_cents"`
	RevenueAnnual        int64                     `json:"revenue_annual_cents"`
	ExpenseMonthly       [core.MonthsPerYear]int64 `json:"expense_monthly_cents"`
	ExpenseAnnual        int64                     `json:"expense_annual_cents"`
	OperationalProfit    [core.MonthsPerYear]int64 `json:"operational_profit_cents"`
	NonOperationalResult [core.MonthsPerYear]int64 `json:"non_operational_result_cents"`
	NetProfit            [core.MonthsPerYear]int64 `json:"net_profit_cents"`
}

func toReportDTO(r core.AnnualReport) reportDTO {
	dto := reportDTO{
		Year:                 r.Year,
		Sections:             make([]sectionDTO, 0, len(r.Sections)),
		RevenueMonthly:       r.Revenue.Monthly,
		RevenueAnnual:        r.Revenue.Annual,
		OperationalProfit:    r.OperationalProfit,
		NonOperationalResult: r.NonOperationalResult,
		NetProfit:            r.NetProfit,
	}

	for _, s := range r.Sections {
		sd := sectionDTO{
			Section: s.Section,
			Kind:    string(s.Kind),
			Monthly: s.Monthly,
			Annual:  s.Annual,
		}
		if s.Kind == core.KindExpense {
			for i := range sd.Monthly {
				sd.Monthly[i] = -sd.Monthly[i]
			}
			sd.Annual = -sd.Annual
		}
		dto.Sections = append(dto.Sections, sd)
	}

	// Expenses are stored as magnitudes; the wire view shows them signed.
	for i, v := range r.Expense.Monthly {
		dto.ExpenseMonthly[i] = -v
	}
	dto.ExpenseAnnual = -r.Expense.Annual

	return dto
}
