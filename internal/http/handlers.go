package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cuzdan/internal/core"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady checks the storage backend when a check is configured.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{
		"store": map[string]any{
			"profiles": len(s.store.Profiles()),
			"version":  s.store.Version(),
		},
		"report_cache": s.reports.Stats(),
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	if s.exports != nil {
		checks["exports"] = "configured"
	} else {
		checks["exports"] = "not_configured"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	rateMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()
	cacheStats := s.reports.Stats()
	snapshot := s.store.Snapshot()

	w.WriteHeader(http.StatusOK)

	metric := func(name, help, kind string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}
	metric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "Requests answered with a 5xx status", "counter", traceMetrics.ServerErrors)
	metric("http_response_time_avg_microseconds", "Average response time", "gauge", traceMetrics.AverageResponseTime)
	metric("profiles", "Stored profiles", "gauge", len(snapshot.Profiles))
	metric("transactions", "Stored transactions", "gauge", len(snapshot.Transactions))
	metric("store_version", "Committed state replacements since start", "counter", s.store.Version())
	metric("report_cache_hits_total", "Report cache hits", "counter", cacheStats.Hits)
	metric("report_cache_misses_total", "Report cache misses", "counter", cacheStats.Misses)
	metric("report_cache_entries", "Report cache entries", "gauge", cacheStats.Size)
	metric("rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateMetrics.TotalHits)
	metric("active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateMetrics.ClientCount)
	metric("suspicious_requests_total", "Requests matching attack patterns", "counter", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", time.Since(s.startedAt).Seconds()))
}

// handleCategories lists the category table, optionally only the categories
// offered for ?type=income or ?type=expense.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if raw == "" {
		writeJSON(w, http.StatusOK, core.Categories())
		return
	}
	t := core.TransactionType(raw)
	if !t.Valid() {
		writeError(w, r, fmt.Errorf("%w: %q", core.ErrInvalidType, raw))
		return
	}
	writeJSON(w, http.StatusOK, core.CategoriesFor(t))
}
