package http

import (
	"net/http"
	"time"

	"gestor/internal/core"
	"gestor/internal/services"
)

type contractRequest struct {
	ClientName   string `json:"client_name"`
	CNAE         string `json:"cnae"`
	MonthlyValue string `json:"monthly_value"`
	Plan         string `json:"plan"`
	StartDate    string `json:"start_date"`
	PaymentDay   int    `json:"payment_day"`
	TrialDays    int    `json:"trial_days"`
}

// handleCreateContract opens a contract and returns it with the computed
// renewal date and market segment.
func (s *Server) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := decodeJSON(r, &req); err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(req.MonthlyValue)
	if err != nil {
		NewResponse().BadRequest("invalid monthly value: " + req.MonthlyValue).Write(w)
		return
	}

	contract, err := s.billing.CreateContract(r.Context(), services.ContractInput{
		ClientName:   sanitizeInput(req.ClientName),
		CNAE:         sanitizeInput(req.CNAE),
		MonthlyValue: core.Money{Cents: cents},
		Plan:         core.PlanType(req.Plan),
		StartDate:    sanitizeInput(req.StartDate),
		PaymentDay:   req.PaymentDay,
		TrialDays:    req.TrialDays,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	NewResponse().Status(http.StatusCreated).Body(toContractDTO(*contract)).Write(w)
}

// handleListContracts returns contracts, optionally filtered by ?status=.
func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	status := core.ContractStatus(r.URL.Query().Get("status"))
	switch status {
	case "", core.ContractActive, core.ContractSuspended, core.ContractClosed:
	default:
		NewResponse().BadRequest("invalid status " + string(status)).Write(w)
		return
	}

	contracts, err := s.billing.ListContracts(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	dtos := make([]contractDTO, 0, len(contracts))
	for _, c := range contracts {
		dtos = append(dtos, toContractDTO(c))
	}
	NewResponse().Body(struct {
		Contracts []contractDTO `json:"contracts"`
	}{Contracts: dtos}).Write(w)
}

func (s *Server) handleGetContract(w http.ResponseWriter, r *http.Request) {
	id, err := parseContractID(r)
	if err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	contract, err := s.billing.GetContract(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponse().Body(toContractDTO(*contract)).Write(w)
}

type adjustmentRequest struct {
	NewValue      string `json:"new_value"`
	EffectiveDate string `json:"effective_date"`
	Note          string `json:"note"`
}

// handleApplyAdjustment changes a contract's plan value. The response
// carries the proration breakdown and the moved renewal date.
func (s *Server) handleApplyAdjustment(w http.ResponseWriter, r *http.Request) {
	id, err := parseContractID(r)
	if err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	var req adjustmentRequest
	if err := decodeJSON(r, &req); err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(req.NewValue)
	if err != nil {
		NewResponse().BadRequest("invalid new value: " + req.NewValue).Write(w)
		return
	}

	result, err := s.billing.ApplyAdjustment(r.Context(), id,
		core.Money{Cents: cents}, sanitizeInput(req.EffectiveDate),
		sanitizeInput(req.Note), time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	NewResponse().Status(http.StatusCreated).Body(toAdjustmentResultDTO(result)).Write(w)
}

// handleListAdjustments returns a contract's append-only change history.
func (s *Server) handleListAdjustments(w http.ResponseWriter, r *http.Request) {
	id, err := parseContractID(r)
	if err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	history, err := s.billing.Adjustments(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	dtos := make([]adjustmentDTO, 0, len(history))
	for _, a := range history {
		dtos = append(dtos, toAdjustmentDTO(a))
	}
	NewResponse().Body(struct {
		Adjustments []adjustmentDTO `json:"adjustments"`
	}{Adjustments: dtos}).Write(w)
}

// handleProrationPreview computes the proration for a hypothetical value
// change without touching the contract. Invalid change dates still
// return a result, tagged as fallback.
func (s *Server) handleProrationPreview(w http.ResponseWriter, r *http.Request) {
	id, err := parseContractID(r)
	if err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	var req adjustmentRequest
	if err := decodeJSON(r, &req); err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(req.NewValue)
	if err != nil {
		NewResponse().BadRequest("invalid new value: " + req.NewValue).Write(w)
		return
	}

	result, err := s.billing.ProrationPreview(r.Context(), id,
		core.Money{Cents: cents}, sanitizeInput(req.EffectiveDate), time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var preview struct {
		Monthly *monthlyProrationDTO `json:"monthly_proration,omitempty"`
		Period  *periodProrationDTO  `json:"period_proration,omitempty"`
	}
	if result.Monthly != nil {
		m := toMonthlyProrationDTO(*result.Monthly)
		preview.Monthly = &m
	}
	if result.Period != nil {
		p := toPeriodProrationDTO(*result.Period)
		preview.Period = &p
	}
	NewResponse().Body(preview).Write(w)
}
