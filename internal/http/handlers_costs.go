package http

import (
	"net/http"

	"gestor/internal/core"
	"gestor/internal/services"
)

// costRequest is the write payload for one cost cell. Value is a decimal
// string; "0" or "0,00" clears the cell.
type costRequest struct {
	CategoryID   string `json:"category_id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Value        string `json:"value"`
	Description  string `json:"description"`
	Notes        string `json:"notes"`
	IsProjection bool   `json:"is_projection"`
}

// handleSaveCost upserts one (category, year, month) cell. A zero value
// deletes the cell whether or not it exists.
func (s *Server) handleSaveCost(w http.ResponseWriter, r *http.Request) {
	var req costRequest
	if err := decodeJSON(r, &req); err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(req.Value)
	if err != nil {
		NewResponse().BadRequest("invalid value: " + req.Value).Write(w)
		return
	}

	cost := core.MonthlyCost{
		CategoryID:   sanitizeInput(req.CategoryID),
		Year:         req.Year,
		Month:        req.Month,
		Value:        core.Money{Cents: cents},
		Description:  sanitizeInput(req.Description),
		Notes:        sanitizeInput(req.Notes),
		IsProjection: req.IsProjection,
	}

	outcome, err := s.costs.SaveCost(r.Context(), cost)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if outcome == services.CostCleared {
		NewResponse().Status(http.StatusOK).Body(map[string]string{
			"outcome": string(outcome),
		}).Write(w)
		return
	}

	NewResponse().Status(http.StatusOK).Body(struct {
		Outcome string  `json:"outcome"`
		Cost    costDTO `json:"cost"`
	}{
		Outcome: string(outcome),
		Cost:    toCostDTO(cost),
	}).Write(w)
}

// handleListCosts returns all cost rows of one year.
func (s *Server) handleListCosts(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	rows, err := s.costs.ListYear(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	dtos := make([]costDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toCostDTO(row))
	}
	NewResponse().Body(struct {
		Year  int       `json:"year"`
		Costs []costDTO `json:"costs"`
	}{Year: year, Costs: dtos}).Write(w)
}

// handleListCategories returns the fixed category catalog.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.costs.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	dtos := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		dtos = append(dtos, toCategoryDTO(c))
	}
	NewResponse().Body(struct {
		Categories []categoryDTO `json:"categories"`
	}{Categories: dtos}).Write(w)
}
