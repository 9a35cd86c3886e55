// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stokwell/stokwell/internal/i18n"
	"github.com/stokwell/stokwell/internal/model"
)

// newStokvelCmd is the root command for stokvel operations.
func newStokvelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stokvel",
		Short: "Create, join and contribute to stokvels",
		Long: `The 'stokvel' command group manages savings groups:
  - Create a stokvel founded by a user
  - Join a stokvel or add a member to it
  - Record contributions
  - Show a stokvel's balance, members and contributions, or list them all`,
	}
	cmd.AddCommand(
		newStokvelCreateCmd(),
		newStokvelJoinCmd(),
		newStokvelAddMemberCmd(),
		newStokvelContributeCmd(),
		newStokvelShowCmd(),
		newStokvelListCmd(),
	)
	return cmd
}

func userFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "Acting user (required)")
	_ = cmd.MarkFlagRequired("user")
}

func newStokvelCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a stokvel; the acting user becomes its first member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			st, err := coord.CreateStokvel(cmd.Context(), args[0], user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.stokvel_created", st.Name, user))
			return nil
		},
	}
	userFlag(cmd)
	return withServices(cmd)
}

func newStokvelJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <name>",
		Short: "Join a stokvel as the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			if err := coord.JoinStokvel(cmd.Context(), args[0], user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.joined", user, args[0]))
			return nil
		},
	}
	userFlag(cmd)
	return withServices(cmd)
}

func newStokvelAddMemberCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "add-member <name> <user>",
		Short: "Add a registered user to a stokvel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := coord.AddMember(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.joined", args[1], args[0]))
			return nil
		},
	})
}

func newStokvelContributeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribute <name> <amount>",
		Short: "Record a contribution by the acting user",
		Long: `Records a contribution to a stokvel the acting user belongs to. The stokvel
balance grows by exactly the amount; the user's wallet is not debited.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if _, err := coord.Contribute(cmd.Context(), args[0], user, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.contributed", user, model.FormatAmount(amount), args[0]))
			return nil
		},
	}
	userFlag(cmd)
	return withServices(cmd)
}

func newStokvelShowCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a stokvel's balance, members and contributions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderStokvel(cmd.OutOrStdout(), args[0])
		},
	})
}

func renderStokvel(out io.Writer, name string) error {
	summary, err := coord.StokvelSummary(name)
	if err != nil {
		return err
	}
	st, err := coord.Stokvel(name)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(summary.Name))
	fmt.Fprintln(out, i18n.T("stokvel.balance", model.FormatAmount(summary.Balance)))
	fmt.Fprintln(out, i18n.T("stokvel.members", strings.Join(summary.Members, ", ")))
	fmt.Fprintln(out, i18n.T("stokvel.contributions", model.FormatAmount(summary.TotalContributions)))
	if !summary.CreatedDate.IsZero() {
		fmt.Fprintln(out, i18n.T("stokvel.created", summary.CreatedDate.Local().Format(time.DateOnly), summary.CreatedBy))
	}
	if len(st.Contributions) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tUSER\tAMOUNT")
	for _, c := range st.Contributions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Date.Local().Format(time.DateTime), c.User, model.FormatAmount(c.Amount))
	}
	return w.Flush()
}

func newStokvelListCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "list",
		Short: "List all stokvels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			names := coord.Stokvels()
			if len(names) == 0 {
				fmt.Fprintln(out, i18n.T("cli.no_stokvels"))
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMEMBERS\tCONTRIBUTIONS\tBALANCE\tCREATED BY")
			for _, name := range names {
				s, err := coord.StokvelSummary(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					s.Name, s.MemberCount, s.ContributionCount, model.FormatAmount(s.Balance), s.CreatedBy)
			}
			return w.Flush()
		},
	})
}
