package http

import (
	"net/http"
)

// maxImportBytes bounds CSV import payloads.
const maxImportBytes = 10 << 20

// handleImportCosts bulk-loads cost cells from a CSV body. Failed rows
// do not abort the import; the summary names each one.
func (s *Server) handleImportCosts(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	summary, err := s.importer.ImportCostsCSV(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if summary.Failed > 0 && summary.Saved == 0 && summary.Cleared == 0 {
		status = http.StatusUnprocessableEntity
	}

	NewResponse().Status(status).Body(struct {
		Saved   int      `json:"saved"`
		Cleared int      `json:"cleared"`
		Failed  int      `json:"failed"`
		Errors  []string `json:"errors,omitempty"`
	}{
		Saved:   summary.Saved,
		Cleared: summary.Cleared,
		Failed:  summary.Failed,
		Errors:  summary.Errors,
	}).Write(w)
}
