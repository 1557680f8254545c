package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tlbx-labs/tlbx/internal/branding"
	"github.com/tlbx-labs/tlbx/internal/host"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := describeBuild()
		switch {
		case versionShort:
			fmt.Fprintln(cmd.OutOrStdout(), info.Version)
			return nil
		case versionJSON:
			return printJSON(cmd.OutOrStdout(), info)
		}
		return printBuild(cmd, info)
	},
}

type buildInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Date     string `json:"date,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Host     bool   `json:"host"`
}

// describeBuild reports the ldflags build values and whether this platform
// has a type library host or needs a snapshot.
func describeBuild() buildInfo {
	_, err := host.System()
	return buildInfo{
		Name:     branding.CLIName(),
		Version:  buildVersion,
		Commit:   buildCommit,
		Date:     buildDate,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Host:     err == nil,
	}
}

func printBuild(cmd *cobra.Command, info buildInfo) error {
	w := newTable(cmd.OutOrStdout())
	fmt.Fprintf(w, "%s\t%s\n", info.Name, info.Version)
	fmt.Fprintf(w, "Commit:\t%s\n", orDash(info.Commit))
	fmt.Fprintf(w, "Built:\t%s\n", orDash(info.Date))
	fmt.Fprintf(w, "Go:\t%s\n", info.Go)
	fmt.Fprintf(w, "Platform:\t%s\n", info.Platform)
	if info.Host {
		fmt.Fprintf(w, "Host:\t%s\n", "type library host available")
	} else {
		fmt.Fprintf(w, "Host:\t%s\n", "unavailable, snapshots only")
	}
	return w.Flush()
}
