// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Stokwell using Cobra. It
// defines the root command, the global flags, the service wiring every
// subcommand shares and the entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stokwell/stokwell/buildvars"
	"github.com/stokwell/stokwell/internal/config"
	"github.com/stokwell/stokwell/internal/i18n"
	"github.com/stokwell/stokwell/internal/ledger"
	"github.com/stokwell/stokwell/internal/logging"
	"github.com/stokwell/stokwell/internal/store"
)

const modulePath = "github.com/stokwell/stokwell"

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var appConfig config.Config

// appStore and coord are opened by setupServices and released by
// teardownServices around every subcommand.
var (
	appStore store.Store
	coord    *ledger.Coordinator
)

// globalFlags returns a command carrying only the root's persistent flags.
// Only those map onto configuration keys; subcommand flags such as
// --password must not shadow the password.* section.
func globalFlags(cmd *cobra.Command) *cobra.Command {
	g := &cobra.Command{}
	g.Flags().AddFlagSet(cmd.Root().PersistentFlags())
	return g
}

func setupServices(cmd *cobra.Command, _ []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logging.SetDebug(verbose)

	appConfig, err = config.LoadConfig[config.Config](globalFlags(cmd), config.Defaults(), optionalConfigPath)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// First run: persist the defaults so the user has a file to edit.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Debugf("wrote default config to user config path")
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	i18n.Init(appConfig.Language)

	hasher, err := appConfig.Password.Hasher()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	st, err := store.New(cmd.Context(), appConfig.Store.Type, appConfig.Store.Path)
	if err != nil {
		return errors.New(i18n.T("config.error_init_store", err))
	}
	c, err := ledger.Open(cmd.Context(), st,
		ledger.WithPolicy(appConfig.Password.PasswordPolicy),
		ledger.WithHasher(hasher),
	)
	if err != nil {
		_ = st.Close()
		return err
	}
	appStore, coord = st, c
	logging.Debugf("using %s store at %s", appConfig.Store.Type, appConfig.Store.Path)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if appStore == nil {
		return nil
	}
	err := appStore.Close()
	appStore, coord = nil, nil
	return err
}

// Execute runs the CLI entrypoint. The main package calls this and handles
// process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when RunE fails.
	_ = teardownServices(rootCmd, nil)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), Message(err))
		logging.Debugf("%v", err)
		return err
	}
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid silently running on defaults.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. Every call
// returns an independent tree, which keeps tests isolated.
func NewRootCmd() *cobra.Command {
	defaults := config.Defaults()
	cmd := &cobra.Command{
		Use:   "stokwell",
		Short: "Stokwell keeps the books of a stokvel.",
		Long: `Stokwell is a ledger for stokvels, rotating savings groups whose members
pool regular contributions. It tracks members, their wallets and every
contribution made, and keeps the whole ledger in a single document on disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("store.type", defaults["store.type"].(string), `Store backend ("file", "sqlite", "memory")`)
	cmd.PersistentFlags().String("store.path", defaults["store.path"].(string), "Path of the ledger document or database")
	cmd.PersistentFlags().String("language", defaults["language"].(string), `Language ("en", "af")`)

	cmd.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newPasswdCmd(),
		newDepositCmd(),
		newWithdrawCmd(),
		newStokvelCmd(),
		newDashboardCmd(),
		newBackupCmd(),
		newRestoreCmd(),
	)
	return cmd
}

// withServices marks a command as needing the ledger.
func withServices(cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = setupServices
	cmd.PostRunE = teardownServices
	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion determines version, commit and date from the linker
// variables and the embedded build info.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
