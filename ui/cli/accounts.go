// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stokwell/stokwell/internal/i18n"
	"github.com/stokwell/stokwell/internal/model"
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <user>",
		Short: "Register a new user",
		Long: `Creates a user with an empty wallet. The password is read from --password
or prompted for; it must satisfy the configured password policy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := newPasswordReader(cmd).read("password", "cli.password_prompt")
			if err != nil {
				return err
			}
			defer pw.Zero()
			u, err := coord.Register(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.registered", u.ID))
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "Password for the new user")
	return withServices(cmd)
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <user>",
		Short: "Check a password and show the user's dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := newPasswordReader(cmd).read("password", "cli.password_prompt")
			if err != nil {
				return err
			}
			defer pw.Zero()
			u, err := coord.Authenticate(args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.welcome", u.ID))
			return renderDashboard(cmd.OutOrStdout(), u.ID)
		},
	}
	cmd.Flags().StringP("password", "p", "", "Password")
	return withServices(cmd)
}

func newPasswdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd <user>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newPasswordReader(cmd)
			current, err := r.read("password", "cli.password_prompt")
			if err != nil {
				return err
			}
			defer current.Zero()
			next, err := r.read("new-password", "cli.new_password_prompt")
			if err != nil {
				return err
			}
			defer next.Zero()
			if err := coord.ChangePassword(cmd.Context(), args[0], current, next); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.password_changed", args[0]))
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "Current password")
	cmd.Flags().String("new-password", "", "New password")
	return withServices(cmd)
}

func newDepositCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "deposit <user> <amount>",
		Short: "Add money to a user's wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if _, err := coord.Deposit(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.deposited", model.FormatAmount(amount), args[0]))
			return nil
		},
	})
}

func newWithdrawCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "withdraw <user> <amount>",
		Short: "Take money out of a user's wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if _, err := coord.Withdraw(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.withdrew", model.FormatAmount(amount), args[0]))
			return nil
		},
	})
}

// parseAmount parses a decimal amount such as "100" or "12.50". The sign is
// left to the ledger to judge.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &inputError{msg: i18n.T("cli.amount_invalid", s), err: err}
	}
	return d, nil
}
