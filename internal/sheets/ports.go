package sheets

import (
	"context"

	"cuzdan/internal/report"
)

// ReportWriter is the outbound port for period report sinks.
type ReportWriter interface {
	// WriteReport renders data into the sink, replacing any earlier
	// report for the same profile and period.
	WriteReport(ctx context.Context, data report.ExportData) (ref string, err error)
}
