// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stokwell/stokwell/internal/i18n"
	"github.com/stokwell/stokwell/internal/model"
)

// recentTransactions is how many log entries the dashboard shows.
const recentTransactions = 5

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	balanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func newDashboardCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "dashboard <user>",
		Short: "Show a user's balance, recent transactions and stokvels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderDashboard(cmd.OutOrStdout(), args[0])
		},
	})
}

func renderDashboard(out io.Writer, userID string) error {
	u, err := coord.User(userID)
	if err != nil {
		return err
	}
	recent, err := coord.RecentTransactions(userID, recentTransactions)
	if err != nil {
		return err
	}
	stokvels, err := coord.UserStokvels(userID)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(i18n.T("dashboard.title", u.ID)))
	fmt.Fprintln(out, balanceStyle.Render(i18n.T("dashboard.balance", model.FormatAmount(u.Balance))))

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(i18n.T("dashboard.recent")))
	if len(recent) == 0 {
		fmt.Fprintln(out, mutedStyle.Render(i18n.T("cli.no_transactions")))
	}
	for _, tx := range recent {
		fmt.Fprintf(out, "  - %s\n", tx)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(i18n.T("dashboard.stokvels")))
	if len(stokvels) == 0 {
		fmt.Fprintln(out, mutedStyle.Render(i18n.T("cli.not_joined")))
	}
	for _, st := range stokvels {
		fmt.Fprintf(out, "  - %s: %s\n", st.Name, model.FormatAmount(st.Balance))
	}
	return nil
}
