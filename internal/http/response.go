package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"cuzdan/internal/core"
	"cuzdan/internal/log"
	"cuzdan/internal/middleware/trace"
	"cuzdan/internal/report"
	"cuzdan/internal/services"
)

// errBadRequest marks request bodies and parameters that cannot be decoded.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrProfileNotFound), errors.Is(err, core.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidRecurringDay),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrTooLong),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server-side failures and hides their detail from clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, RequestID: trace.FromRequest(r)})
}
