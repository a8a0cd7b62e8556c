package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cuzdan/internal/core"
)

func transactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List, add, edit and delete transactions",
	}
	cmd.AddCommand(transactionsListCmd(a))
	cmd.AddCommand(transactionsAddCmd(a))
	cmd.AddCommand(transactionsEditCmd(a))
	cmd.AddCommand(transactionsDeleteCmd(a))
	return cmd
}

func transactionsListCmd(a *app) *cobra.Command {
	var profileID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transactions of a profile, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			txs := a.store.ProfileTransactions(p.ID)
			if len(txs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No transactions for %s\n", p.Name)
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tTITLE\tRECURRING")
			for _, t := range txs {
				amount := core.FormatAmount(p.Currency, t.Signed())
				recurring := ""
				if t.IsRecurring {
					recurring = fmt.Sprintf("day %d", t.RecurringDay)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date, t.Type, amount, t.Category.Label(), t.Title, recurring)
			}
			return w.Flush()
		},
	}
	addProfileFlag(cmd, &profileID)
	return cmd
}

// transactionFlags binds the editable transaction fields to flags.
type transactionFlags struct {
	kind         string
	amount       string
	category     string
	title        string
	description  string
	date         string
	recurringDay int
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "type", "t", string(core.Expense), "income or expense")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 1250.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category key")
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "optional description")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&f.recurringDay, "recurring-day", 0, "day of month (1-31) for a monthly recurring transaction")
}

func (f *transactionFlags) input(today core.Date) (core.TransactionInput, error) {
	amount, err := core.ParseAmount(f.amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	date := today
	if strings.TrimSpace(f.date) != "" {
		if date, err = core.ParseDate(f.date); err != nil {
			return core.TransactionInput{}, err
		}
	}
	return core.TransactionInput{
		Type:         core.TransactionType(strings.ToLower(strings.TrimSpace(f.kind))),
		Amount:       amount,
		Category:     core.Category(strings.TrimSpace(f.category)),
		Title:        strings.TrimSpace(f.title),
		Description:  strings.TrimSpace(f.description),
		Date:         date,
		IsRecurring:  f.recurringDay != 0,
		RecurringDay: f.recurringDay,
	}, nil
}

func transactionsAddCmd(a *app) *cobra.Command {
	var profileID string
	var flags transactionFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(profileID)
			if err != nil {
				return err
			}
			in, err := flags.input(a.store.Today())
			if err != nil {
				return err
			}
			t, err := a.store.AddTransaction(cmd.Context(), p.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n", t.Type, core.FormatAmount(p.Currency, t.Amount), t.ID)
			return nil
		},
	}
	addProfileFlag(cmd, &profileID)
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// edit replaces every editable field, flags left unset keep their current value.
func transactionsEditCmd(a *app) *cobra.Command {
	var flags transactionFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, ok := findTransaction(a, args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], core.ErrTransactionNotFound)
			}
			prev := current.Input()
			if !cmd.Flags().Changed("type") {
				flags.kind = string(prev.Type)
			}
			if !cmd.Flags().Changed("amount") {
				flags.amount = prev.Amount.String()
			}
			if !cmd.Flags().Changed("category") {
				flags.category = string(prev.Category)
			}
			if !cmd.Flags().Changed("title") {
				flags.title = prev.Title
			}
			if !cmd.Flags().Changed("description") {
				flags.description = prev.Description
			}
			if !cmd.Flags().Changed("recurring-day") {
				flags.recurringDay = prev.RecurringDay
			}
			in, err := flags.input(prev.Date)
			if err != nil {
				return err
			}
			t, err := a.store.UpdateTransaction(cmd.Context(), current.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", t.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func transactionsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.DeleteTransaction(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}

func findTransaction(a *app, id string) (core.Transaction, bool) {
	for _, t := range a.store.Snapshot().Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}
