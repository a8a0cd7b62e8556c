package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cuzdan/internal/amqp"
	"cuzdan/internal/core"
	"cuzdan/internal/report"
	"cuzdan/internal/sheets"
	"cuzdan/internal/store"
)

const (
	StatusQueued  = "queued"
	StatusWritten = "written"
)

// ErrExportUnavailable is returned when neither a queue nor a sink is configured.
var ErrExportUnavailable = errors.New("export not configured")

// ExportPublisher hands export requests to a worker.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error
}

// ExportRequest selects the profile and period to export. Start and End are
// only used by custom periods.
type ExportRequest struct {
	ProfileID string            `json:"profileId"`
	Period    report.PeriodType `json:"period"`
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Start     core.Date         `json:"start"`
	End       core.Date         `json:"end"`
}

// Resolve returns the report period the request names.
func (r ExportRequest) Resolve() (report.Period, error) {
	if r.Period == report.PeriodCustom {
		return report.CustomPeriod(r.Start, r.End)
	}
	return report.NewPeriod(r.Period, r.Year, r.Month)
}

// Message converts the request to its queue representation.
func (r ExportRequest) Message() *amqp.ExportRequestMessage {
	msg := amqp.NewExportRequestMessage(r.ProfileID, string(r.Period), r.Year, r.Month)
	msg.Start = r.Start.String()
	msg.End = r.End.String()
	return msg
}

// RequestFromMessage converts a queue message back into a request.
func RequestFromMessage(msg *amqp.ExportRequestMessage) (ExportRequest, error) {
	req := ExportRequest{
		ProfileID: msg.ProfileID,
		Period:    report.PeriodType(msg.Period),
		Year:      msg.Year,
		Month:     msg.Month,
	}
	var err error
	if msg.Start != "" {
		if req.Start, err = core.ParseDate(msg.Start); err != nil {
			return ExportRequest{}, err
		}
	}
	if msg.End != "" {
		if req.End, err = core.ParseDate(msg.End); err != nil {
			return ExportRequest{}, err
		}
	}
	return req, nil
}

// ExportResult reports what RequestExport did.
type ExportResult struct {
	Status      string `json:"status"`
	PeriodLabel string `json:"periodLabel"`
	Ref         string `json:"ref,omitempty"`
}

// BuildExport computes the export data of profile for the requested period.
func BuildExport(profile core.Profile, transactions []core.Transaction, req ExportRequest) (report.ExportData, error) {
	p, err := req.Resolve()
	if err != nil {
		return report.ExportData{}, err
	}
	return report.PeriodData(transactions, profile.Name, profile.Currency, p), nil
}

// ExportService queues export requests when a publisher is configured and
// writes reports directly otherwise.
type ExportService struct {
	store     *store.Store
	writer    sheets.ReportWriter
	publisher ExportPublisher
}

// NewExportService creates the service. writer and publisher may be nil.
func NewExportService(st *store.Store, writer sheets.ReportWriter, publisher ExportPublisher) *ExportService {
	return &ExportService{
		store:     st,
		writer:    writer,
		publisher: publisher,
	}
}

// RequestExport validates req and either publishes it or writes the report.
func (s *ExportService) RequestExport(ctx context.Context, req ExportRequest) (ExportResult, error) {
	profile, ok := s.store.Profile(req.ProfileID)
	if !ok {
		return ExportResult{}, fmt.Errorf("export %q: %w", req.ProfileID, core.ErrProfileNotFound)
	}
	period, err := req.Resolve()
	if err != nil {
		return ExportResult{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExportRequest(ctx, req.Message()); err != nil {
			return ExportResult{}, fmt.Errorf("queue export: %w", err)
		}
		return ExportResult{Status: StatusQueued, PeriodLabel: period.Label}, nil
	}

	if s.writer == nil {
		return ExportResult{}, ErrExportUnavailable
	}

	data := report.PeriodData(s.store.ProfileTransactions(profile.ID), profile.Name, profile.Currency, period)
	ref, err := s.writer.WriteReport(ctx, data)
	if err != nil {
		return ExportResult{}, fmt.Errorf("write report: %w", err)
	}

	slog.InfoContext(ctx, "Report exported",
		"profile_id", profile.ID,
		"period", period.Label,
		"ref", ref)
	return ExportResult{Status: StatusWritten, PeriodLabel: period.Label, Ref: ref}, nil
}
