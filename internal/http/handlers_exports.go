package http

import (
	"net/http"

	"cuzdan/internal/log"
	"cuzdan/internal/report"
	"cuzdan/internal/services"
)

func (s *Server) handleRequestExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.exports == nil {
		writeError(w, r, services.ErrExportUnavailable)
		return
	}

	// an empty body exports the current month
	var req services.ExportRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	req.ProfileID = p.ID
	if req.Period == "" {
		req.Period = report.PeriodMonth
	}
	today := s.store.Today()
	if req.Year == 0 {
		req.Year = today.Year()
	}
	if req.Month == 0 {
		req.Month = today.Month()
	}

	result, err := s.exports.RequestExport(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Status == services.StatusQueued {
		status = http.StatusAccepted
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Export requested",
		log.FieldProfileID, p.ID,
		log.FieldPeriod, result.PeriodLabel,
		log.FieldOperation, log.OpExport,
		"status", result.Status)
	writeJSON(w, status, result)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	result := s.store.CheckAndPerformMonthlyCleanup(r.Context())
	log.FromContext(r.Context()).InfoContext(r.Context(), "Cleanup check requested",
		log.FieldOperation, log.OpCleanup,
		log.FieldMonthKey, result.MonthKey,
		log.FieldRemoved, result.Removed,
		"ran", result.Ran)
	writeJSON(w, http.StatusOK, result)
}
