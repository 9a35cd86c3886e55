// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stokwell/stokwell/internal/backup"
	"github.com/stokwell/stokwell/internal/i18n"
)

func newBackupCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of the ledger",
		Long: `Writes the entire ledger (users, wallets, stokvels and contributions) into a
single Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's not already present.
If no output file is specified, a default filename 'stokwell-backup-YYYY-MM-DD.json.zst' is used.

A backup restores onto any store backend.

Examples:
  # Backup to a default file (e.g., stokwell-backup-2026-10-19.json.zst)
  stokwell backup

  # Backup to a specific file
  stokwell backup my-backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			outputFile := backup.FileName(name, time.Now())
			if err := backup.WriteFile(outputFile, coord.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup_written", outputFile))
			return nil
		},
	})
}

func newRestoreCmd() *cobra.Command {
	return withServices(&cobra.Command{
		Use:   "restore <backup-file.zst>",
		Short: "Replace the ledger with the contents of a backup",
		Long: `Restores the entire ledger from a Zstandard-compressed JSON backup file.
The backup is validated first; the current ledger is only replaced when the
backup is consistent and has been saved to the configured store.

Example:
  stokwell restore ./stokwell-backup-2026-10-19.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := backup.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := coord.Restore(cmd.Context(), state); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.restored", args[0]))
			return nil
		},
	})
}
