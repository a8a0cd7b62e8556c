package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cuzdan/internal/amqp"
	"cuzdan/internal/core"
	"cuzdan/internal/services"
	"cuzdan/internal/sheets"
	"cuzdan/internal/store"
)

// ExportWorker generates reports for queued export requests
type ExportWorker struct {
	persister store.Persister
	writer    sheets.ReportWriter
}

func NewExportWorker(persister store.Persister, writer sheets.ReportWriter) *ExportWorker {
	return &ExportWorker{
		persister: persister,
		writer:    writer,
	}
}

// HandleExportRequest processes a single export request from AMQP.
// The state is reloaded from the persister so the report reflects the
// latest saved data. Requests for profiles that no longer exist are dropped.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"profile_id", msg.ProfileID,
		"period", msg.Period,
		"requested_at", msg.RequestedAt)

	req, err := services.RequestFromMessage(msg)
	if err != nil {
		return amqp.Permanent(fmt.Errorf("decode request: %w", err))
	}

	state, err := w.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	profile, ok := findProfile(state, req.ProfileID)
	if !ok {
		slog.WarnContext(ctx, "Dropping export request for unknown profile", "profile_id", req.ProfileID)
		return nil
	}

	var txs []core.Transaction
	for _, t := range state.Transactions {
		if t.ProfileID == profile.ID {
			txs = append(txs, t)
		}
	}
	core.SortNewestFirst(txs)

	data, err := services.BuildExport(profile, txs, req)
	if err != nil {
		return amqp.Permanent(fmt.Errorf("build export: %w", err))
	}

	ref, err := w.writer.WriteReport(ctx, data)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	slog.InfoContext(ctx, "Export completed",
		"profile_id", profile.ID,
		"period", data.PeriodLabel,
		"transactions", len(data.Transactions),
		"ref", ref)
	return nil
}

func findProfile(state core.State, id string) (core.Profile, bool) {
	for _, p := range state.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return core.Profile{}, false
}
