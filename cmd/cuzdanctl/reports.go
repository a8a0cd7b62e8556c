package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cuzdan/internal/core"
	"cuzdan/internal/recurrence"
	"cuzdan/internal/report"
)

// periodFlags selects a report period the same way the HTTP API does.
type periodFlags struct {
	period string
	year   int
	month  int
	start  string
	end    string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.period, "period", string(report.PeriodMonth), "month, quarter, half, year or custom")
	cmd.Flags().IntVar(&f.year, "year", 0, "year (default: current year)")
	cmd.Flags().IntVar(&f.month, "month", 0, "month 1-12 (default: current month)")
	cmd.Flags().StringVar(&f.start, "start", "", "custom period start, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "custom period end, YYYY-MM-DD")
}

func (f *periodFlags) resolve(today core.Date) (report.Period, error) {
	pt := report.PeriodType(strings.ToLower(strings.TrimSpace(f.period)))
	if !pt.IsValid() {
		return report.Period{}, fmt.Errorf("%w: %q", report.ErrInvalidPeriod, f.period)
	}
	if pt == report.PeriodCustom {
		start, err := core.ParseDate(f.start)
		if err != nil {
			return report.Period{}, fmt.Errorf("--start: %w", err)
		}
		end, err := core.ParseDate(f.end)
		if err != nil {
			return report.Period{}, fmt.Errorf("--end: %w", err)
		}
		return report.CustomPeriod(start, end)
	}
	year, month := defaultYearMonth(f.year, f.month, today)
	return report.NewPeriod(pt, year, month)
}

func defaultYearMonth(year, month int, today core.Date) (int, int) {
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	return year, month
}

func summaryCmd(a *app) *cobra.Command {
	var profileID string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show balance, income and expense totals of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			s := a.store.Summary(p.ID)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Profile\t%s\n", p.Name)
			fmt.Fprintf(w, "Balance\t%s\n", core.FormatAmount(p.Currency, s.TotalBalance))
			fmt.Fprintf(w, "Income\t%s\n", core.FormatAmount(p.Currency, s.TotalIncome))
			fmt.Fprintf(w, "Expense\t%s\n", core.FormatAmount(p.Currency, s.TotalExpense))
			fmt.Fprintf(w, "Transactions\t%d\n", s.TransactionCount)
			return w.Flush()
		},
	}
	addProfileFlag(cmd, &profileID)
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	var profileID string
	var pf periodFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate a profile's transactions over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			period, err := pf.resolve(a.store.Today())
			if err != nil {
				return err
			}
			txs := period.Filter(a.store.ProfileTransactions(p.ID))
			agg := report.Aggregate(txs, period)
			kpis := report.ComputeKPIs(txs)
			return printReport(cmd.OutOrStdout(), p.Currency, agg, kpis)
		},
	}
	addProfileFlag(cmd, &profileID)
	pf.register(cmd)
	return cmd
}

func printReport(out io.Writer, c core.Currency, agg report.Aggregation, kpis report.KPIs) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Period\t%s (%s to %s)\n", agg.PeriodLabel, agg.StartDate, agg.EndDate)
	fmt.Fprintf(w, "Income\t%s\n", core.FormatAmount(c, agg.TotalIncome))
	fmt.Fprintf(w, "Expense\t%s\n", core.FormatAmount(c, agg.TotalExpense))
	fmt.Fprintf(w, "Balance\t%s\n", core.FormatAmount(c, agg.Balance))
	fmt.Fprintf(w, "Transactions\t%d\n", agg.TransactionCount)
	fmt.Fprintf(w, "Average transaction\t%s\n", core.FormatAmount(c, kpis.AverageTransaction))
	fmt.Fprintf(w, "Daily average expense\t%s\n", core.FormatAmount(c, kpis.DailyAverageExpense))
	fmt.Fprintf(w, "Savings rate\t%s%%\n", kpis.SavingsRate.StringFixed(1))

	if cats := agg.IncomeCategories(); len(cats) > 0 {
		fmt.Fprintln(w, "\nINCOME BY CATEGORY\t")
		for _, ca := range cats {
			fmt.Fprintf(w, "%s\t%s\n", ca.Label, core.FormatAmount(c, ca.Amount))
		}
	}
	if titles := agg.ExpenseTitles(); len(titles) > 0 {
		fmt.Fprintln(w, "\nEXPENSES BY TITLE\t")
		for _, ta := range titles {
			fmt.Fprintf(w, "%s\t%s\n", ta.Title, core.FormatAmount(c, ta.Amount))
		}
	}
	return w.Flush()
}

func trendCmd(a *app) *cobra.Command {
	var profileID string
	var year, month, months int
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show monthly income and expense totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			if months < 1 || months > 60 {
				return fmt.Errorf("--months must be between 1 and 60, got %d", months)
			}
			y, m := defaultYearMonth(year, month, a.store.Today())
			if m < 1 || m > 12 {
				return fmt.Errorf("%w: %d", core.ErrInvalidMonth, m)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSE\tNET")
			for _, pt := range report.Trend(a.store.ProfileTransactions(p.ID), y, m, months) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pt.Label,
					core.FormatAmount(p.Currency, pt.Income),
					core.FormatAmount(p.Currency, pt.Expense),
					core.FormatAmount(p.Currency, pt.Net))
			}
			return w.Flush()
		},
	}
	addProfileFlag(cmd, &profileID)
	cmd.Flags().IntVar(&year, "year", 0, "last year of the trend (default: current year)")
	cmd.Flags().IntVar(&month, "month", 0, "last month of the trend (default: current month)")
	cmd.Flags().IntVar(&months, "months", report.DefaultTrendMonths, "number of months")
	return cmd
}

func upcomingCmd(a *app) *cobra.Command {
	var profileID string
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List payments due soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			if days < 1 || days > 366 {
				return fmt.Errorf("--days must be between 1 and 366, got %d", days)
			}
			items := recurrence.Upcoming(a.store.ProfileTransactions(p.ID), a.store.Today(), days)
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing due in the next %d days\n", days)
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DUE\tDAYS LEFT\tTITLE\tAMOUNT")
			for _, o := range items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", o.DueDate, o.DaysLeft, o.Transaction.Title,
					core.FormatAmount(p.Currency, o.Transaction.Signed()))
			}
			return w.Flush()
		},
	}
	addProfileFlag(cmd, &profileID)
	cmd.Flags().IntVar(&days, "days", recurrence.DefaultHorizonDays, "horizon in days")
	return cmd
}

func calendarCmd(a *app) *cobra.Command {
	var profileID string
	var year, month int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the days of a month that have transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			y, m := defaultYearMonth(year, month, a.store.Today())
			if m < 1 || m > 12 {
				return fmt.Errorf("%w: %d", core.ErrInvalidMonth, m)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tINCOME\tEXPENSE\tTITLES")
			for _, day := range recurrence.MonthCalendar(a.store.ProfileTransactions(p.ID), y, m) {
				if len(day.Transactions) == 0 {
					continue
				}
				titles := make([]string, 0, len(day.Transactions))
				for _, t := range day.Transactions {
					titles = append(titles, t.Title)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", day.Date,
					core.FormatAmount(p.Currency, day.Income),
					core.FormatAmount(p.Currency, day.Expense),
					strings.Join(titles, ", "))
			}
			return w.Flush()
		},
	}
	addProfileFlag(cmd, &profileID)
	cmd.Flags().IntVar(&year, "year", 0, "year (default: current year)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default: current month)")
	return cmd
}
