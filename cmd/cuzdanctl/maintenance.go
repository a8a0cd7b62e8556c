package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cuzdan/internal/core"
	"cuzdan/internal/report"
	"cuzdan/internal/services"
)

func cleanupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Run the monthly cleanup if it has not run this month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.store.CheckAndPerformMonthlyCleanup(cmd.Context())
			if !res.Ran {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleanup already done for %s\n", res.MonthKey)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleanup for %s removed %d transactions\n", res.MonthKey, res.Removed)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var profileID string
	var pf periodFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a period report to Google Sheets",
		Long: `Export a period report. The request is queued for the export worker when
AMQP_URL is set, otherwise the report is written to GOOGLE_SPREADSHEET_ID directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.exports == nil {
				return services.ErrExportUnavailable
			}
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			req := services.ExportRequest{
				ProfileID: p.ID,
				Period:    report.PeriodType(strings.ToLower(strings.TrimSpace(pf.period))),
			}
			if req.Period == report.PeriodCustom {
				if req.Start, err = core.ParseDate(pf.start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				if req.End, err = core.ParseDate(pf.end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			} else {
				req.Year, req.Month = defaultYearMonth(pf.year, pf.month, a.store.Today())
			}
			res, err := a.exports.RequestExport(cmd.Context(), req)
			if err != nil {
				return err
			}
			switch res.Status {
			case services.StatusQueued:
				fmt.Fprintf(cmd.OutOrStdout(), "Queued export of %s\n", res.PeriodLabel)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", res.PeriodLabel, res.Ref)
			}
			return nil
		},
	}
	addProfileFlag(cmd, &profileID)
	pf.register(cmd)
	return cmd
}
