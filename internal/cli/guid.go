package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tlbx-labs/tlbx/internal/host"
)

var guidJSON bool

func init() {
	guidCmd.Flags().BoolVar(&guidJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(guidCmd)
}

var guidCmd = &cobra.Command{
	Use:   "guid <guid> <major> <minor>",
	Short: "Load the library registered under an exact GUID and version",
	Long: `Load the library registered under a GUID at exactly major.minor. Version
numbers are hexadecimal, as they appear in registry keys.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		guid, err := host.ParseGUID(args[0])
		if err != nil {
			return err
		}
		major, err := parseVersionPart("major", args[1])
		if err != nil {
			return err
		}
		minor, err := parseVersionPart("minor", args[2])
		if err != nil {
			return err
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		lib, err := env.resolver().ResolveByGUIDVersion(guid, major, minor)
		if err != nil {
			return err
		}
		defer lib.Close()

		info, err := describeLibrary(lib, env.lcid)
		if err != nil {
			return err
		}
		if guidJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}
		return printLibrary(cmd, info)
	},
}

func parseVersionPart(name, s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s version %q: %w", name, s, err)
	}
	return uint16(v), nil
}
