package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tlbx-labs/tlbx/internal/branding"
	"github.com/tlbx-labs/tlbx/internal/config"
	"github.com/tlbx-labs/tlbx/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` resolves COM type libraries by registered name, GUID, class or ProgID,
and inspects the types they declare. On hosts without a registry it works
from a catalog snapshot (--snapshot or the "snapshot" config key).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.KeySnapshot, "", "Catalog snapshot to use instead of the host registry")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String(config.KeyLCID, "", "Locale used for registered path lookups (decimal or 0x hex)")
}

// setup loads configuration, binds the persistent flags over it and
// installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	config.Load()

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		config.KeySnapshot: config.KeySnapshot,
		config.KeyLogLevel: "log-level",
		config.KeyLCID:     config.KeyLCID,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	log, err := logging.New(config.LogLevel())
	if err != nil {
		return err
	}
	logging.SetLogger(log)
	return nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	defer func() { _ = logging.Logger().Sync() }()
	return rootCmd.Execute()
}
