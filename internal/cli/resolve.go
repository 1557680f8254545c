package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/resolver"
	"github.com/tlbx-labs/tlbx/internal/typelib"
	"github.com/tlbx-labs/tlbx/internal/vernum"
)

var (
	resolveMajor string
	resolveMinor string
	resolveJSON  bool
)

func init() {
	resolveCmd.Flags().StringVar(&resolveMajor, "major", "", "Preferred major version key (GUID identifiers only)")
	resolveCmd.Flags().StringVar(&resolveMinor, "minor", "", "Preferred minor version key")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <identifier>",
	Short: "Resolve a type library by name, GUID or path",
	Long: `Resolve a type library. The identifier is tried, in order, as a registered
display name, as a library GUID (highest version unless --major is given),
and finally as a file path handed straight to the loader.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		lib, err := env.resolver().Resolve(args[0], resolver.Version{Major: resolveMajor, Minor: resolveMinor})
		if err != nil {
			return err
		}
		defer lib.Close()

		info, err := describeLibrary(lib, env.lcid)
		if err != nil {
			return err
		}
		if resolveJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}
		return printLibrary(cmd, info)
	},
}

// libraryInfo is the display form of a resolved library.
type libraryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GUID        string `json:"guid"`
	Version     string `json:"version"`
	Flags       uint16 `json:"flags"`
	Visible     bool   `json:"visible"`
	Path        string `json:"path,omitempty"`
	HelpFile    string `json:"help_file,omitempty"`
	Types       int    `json:"types"`
}

func describeLibrary(lib *typelib.Library, lcid uint32) (libraryInfo, error) {
	guid, err := lib.GUID()
	if err != nil {
		return libraryInfo{}, err
	}
	major, err := lib.MajorVersion()
	if err != nil {
		return libraryInfo{}, err
	}
	minor, err := lib.MinorVersion()
	if err != nil {
		return libraryInfo{}, err
	}
	flags, err := lib.Flags()
	if err != nil {
		return libraryInfo{}, err
	}
	visible, err := lib.Visible()
	if err != nil {
		return libraryInfo{}, err
	}

	info := libraryInfo{
		Name:        lib.DisplayName(),
		Description: lib.FriendlyName(),
		GUID:        host.FormatGUID(guid),
		Version:     vernum.RegKey(major, minor),
		Flags:       flags,
		Visible:     visible,
		HelpFile:    lib.HelpFile(),
	}
	// Libraries loaded straight from a file have no registered path.
	if path, err := lib.ResolvedPath(lcid); err == nil {
		info.Path = path
	}
	for ti := range lib.Types() {
		info.Types++
		ti.Release()
	}
	return info, nil
}

func printLibrary(cmd *cobra.Command, info libraryInfo) error {
	w := newTable(cmd.OutOrStdout())
	fmt.Fprintf(w, "Name:\t%s\n", orDash(info.Name))
	fmt.Fprintf(w, "Description:\t%s\n", orDash(info.Description))
	fmt.Fprintf(w, "GUID:\t%s\n", info.GUID)
	fmt.Fprintf(w, "Version:\t%s\n", info.Version)
	fmt.Fprintf(w, "Flags:\t%#x\n", info.Flags)
	fmt.Fprintf(w, "Visible:\t%s\n", yesNo(info.Visible))
	fmt.Fprintf(w, "Path:\t%s\n", orDash(info.Path))
	fmt.Fprintf(w, "Help file:\t%s\n", orDash(info.HelpFile))
	printer.Fprintf(w, "Types:\t%d\n", info.Types)
	return w.Flush()
}
