package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cuzdan/internal/core"
)

func profilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "List, create, select and delete profiles",
	}
	cmd.AddCommand(profilesListCmd(a))
	cmd.AddCommand(profilesAddCmd(a))
	cmd.AddCommand(profilesSelectCmd(a))
	cmd.AddCommand(profilesDeleteCmd(a))
	return cmd
}

func profilesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles := a.store.Profiles()
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles. Use 'cuzdanctl profiles add' to create one.")
				return nil
			}
			active, _ := a.store.ActiveProfile()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ACTIVE\tID\tNAME\tCURRENCY\tCOLOR")
			for _, p := range profiles {
				mark := ""
				if p.ID == active.ID {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, p.ID, p.Name, p.Currency, p.AvatarColor)
			}
			return w.Flush()
		},
	}
}

func profilesAddCmd(a *app) *cobra.Command {
	var in core.ProfileInput
	var currency string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			in.Currency = core.Currency(strings.ToUpper(strings.TrimSpace(currency)))
			p, err := a.store.AddProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&currency, "currency", "c", string(core.TRY), "currency: TRY, USD or EUR")
	cmd.Flags().StringVar(&in.AvatarColor, "color", "", "avatar color")
	return cmd
}

func profilesSelectCmd(a *app) *cobra.Command {
	var clearActive bool
	cmd := &cobra.Command{
		Use:   "select [ID]",
		Short: "Mark a profile as active",
		Args: func(cmd *cobra.Command, args []string) error {
			if clearActive {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if !clearActive {
				id = args[0]
			}
			if err := a.store.SelectProfile(cmd.Context(), id); err != nil {
				return err
			}
			if clearActive {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared active profile")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Active profile is now %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearActive, "clear", false, "clear the active profile")
	return cmd
}

func profilesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a profile and all of its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.DeleteProfile(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
			return nil
		},
	}
}
