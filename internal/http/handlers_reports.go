package http

import "net/http"

// handleAnnualReport returns the derived annual view for one year. The
// stored magnitudes are unsigned; this endpoint is where expense rows
// pick up their negative sign.
func (s *Server) handleAnnualReport(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		NewResponse().BadRequest(err.Error()).Write(w)
		return
	}

	report, err := s.reports.AnnualReport(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	NewResponse().Body(toReportDTO(report)).Write(w)
}
