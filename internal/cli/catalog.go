package cli

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/logging"
	"github.com/tlbx-labs/tlbx/internal/snapshot"
	"go.uber.org/zap"
)

var (
	catalogConstraint string
	catalogName       string
	catalogJSON       bool
)

func init() {
	catalogListCmd.Flags().StringVar(&catalogConstraint, "constraint", "", `Version constraint, e.g. ">= 2.0, < 3"`)
	catalogListCmd.Flags().StringVar(&catalogName, "name", "", "Filter by display name substring (case-insensitive)")
	catalogListCmd.Flags().BoolVar(&catalogJSON, "json", false, "Output in JSON format")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect type library registrations and snapshots",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered type library files",
	Long: `List every file registered in the TypeLib tree, one row per GUID, version,
locale and platform. Versions are hexadecimal major.minor keys; --constraint
matches them as semantic versions.`,
	Args: cobra.NoArgs,
	RunE: runCatalogList,
}

// catalogEntry is the display form of one registration.
type catalogEntry struct {
	GUID     string `json:"guid"`
	Version  string `json:"version"`
	Name     string `json:"name"`
	Locale   string `json:"locale,omitempty"`
	Platform string `json:"platform,omitempty"`
	Path     string `json:"path,omitempty"`
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	var constraint *semver.Constraints
	if catalogConstraint != "" {
		c, err := semver.NewConstraint(catalogConstraint)
		if err != nil {
			return fmt.Errorf("parsing constraint %q: %w", catalogConstraint, err)
		}
		constraint = c
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	registered, err := catalog.Entries(env.cat)
	if err != nil {
		return err
	}

	entries := filterEntries(registered, constraint, catalogName)
	for i := range entries {
		entries[i].Path = env.cat.ExpandEnv(entries[i].Path)
	}

	if catalogJSON {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching registrations.")
		return nil
	}

	w := newTable(cmd.OutOrStdout())
	fmt.Fprintln(w, "GUID\tVERSION\tLOCALE\tPLATFORM\tNAME\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.GUID, e.Version, orDash(e.Locale), orDash(e.Platform), orDash(e.Name), orDash(e.Path))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printer.Fprintf(cmd.OutOrStdout(), "%d registrations (%s)\n", len(entries), dim.Sprint(env.source))
	return nil
}

func filterEntries(registered []catalog.Entry, constraint *semver.Constraints, name string) []catalogEntry {
	name = strings.ToLower(name)

	var entries []catalogEntry
	for _, e := range registered {
		if name != "" && !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if constraint != nil {
			v, err := e.SemVer()
			if err != nil {
				logging.Logger().Debug("skipping unparsable version key",
					zap.String("guid", e.GUID),
					zap.String("version", e.Version),
					zap.Error(err))
				continue
			}
			if !constraint.Check(v) {
				continue
			}
		}
		entries = append(entries, catalogEntry{
			GUID:     e.GUID,
			Version:  e.Version,
			Name:     e.Name,
			Locale:   e.Locale,
			Platform: e.Platform,
			Path:     e.Path,
		})
	}
	return entries
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog snapshot against the snapshot schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := snapshot.ValidateFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Valid {
			fmt.Fprintf(out, "%s %s\n", okMark, args[0])
			return nil
		}
		fmt.Fprintf(out, "%s %s\n", failMark, args[0])
		for _, issue := range result.Issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		return fmt.Errorf("%s: %s", args[0], printer.Sprintf("%d schema violations", len(result.Issues)))
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the current environment's registrations to a snapshot",
	Long: `Write the TypeLib registrations of the current environment, and the contents
of every registered file that loads, to a snapshot. The format follows the
extension (.yaml, .yml, .toml); a trailing .zst compresses the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := snapshot.FormatOf(args[0]); err != nil {
			return err
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		doc, err := snapshot.Export(env.cat, env.sess, logging.Logger())
		if err != nil {
			return err
		}
		if err := snapshot.Save(args[0], doc); err != nil {
			return err
		}
		printer.Fprintf(cmd.OutOrStdout(), "%s Exported %d type libraries with %d loadable files to %s\n",
			okMark, len(doc.TypeLibs), len(doc.Libraries), args[0])
		return nil
	},
}
