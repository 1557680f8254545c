package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/resolver"
	"github.com/tlbx-labs/tlbx/internal/typedesc"
	"github.com/tlbx-labs/tlbx/internal/typelib"
)

var (
	typesMajor string
	typesMinor string
	typesKind  string
	typesJSON  bool
)

func init() {
	typesCmd.Flags().StringVar(&typesMajor, "major", "", "Preferred major version key (GUID identifiers only)")
	typesCmd.Flags().StringVar(&typesMinor, "minor", "", "Preferred minor version key")
	typesCmd.Flags().StringVar(&typesKind, "kind", "", "Filter by kind (enum, record, module, interface, dispatch, coclass, alias, union)")
	typesCmd.Flags().BoolVar(&typesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(typesCmd)
}

var typesCmd = &cobra.Command{
	Use:   "types <identifier>",
	Short: "List the types declared by a type library",
	Long: `Resolve a type library as "resolve" does and list its types. Alias types show
the descriptor they stand for, e.g. "PTR SAFEARRAY I4".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind host.TypeKind
		if typesKind != "" {
			var ok bool
			if kind, ok = host.ParseTypeKind(typesKind); !ok {
				return fmt.Errorf("unknown type kind %q", typesKind)
			}
		}

		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		lib, err := env.resolver().Resolve(args[0], resolver.Version{Major: typesMajor, Minor: typesMinor})
		if err != nil {
			return err
		}
		defer lib.Close()

		entries := listTypes(lib, typesKind != "", kind)
		if typesJSON {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No types found.")
			return nil
		}
		return printTypesTable(cmd, entries)
	},
}

// typeEntry is the display form of one declared type.
type typeEntry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	GUID  string `json:"guid,omitempty"`
	Alias string `json:"alias,omitempty"`
}

func listTypes(lib *typelib.Library, filter bool, kind host.TypeKind) []typeEntry {
	var entries []typeEntry
	for ti := range lib.Types() {
		if e, ok := describeType(ti); ok && (!filter || e.Kind == kind.String()) {
			entries = append(entries, e)
		}
		ti.Release()
	}
	return entries
}

func describeType(ti *typelib.TypeInfo) (typeEntry, bool) {
	a, err := ti.Attr()
	if err != nil {
		return typeEntry{}, false
	}
	e := typeEntry{Index: ti.Index, Name: ti.Name, Kind: a.Kind.String()}
	if a.GUID != uuid.Nil {
		e.GUID = host.FormatGUID(a.GUID)
	}
	if a.Kind == host.KindAlias {
		e.Alias = typedesc.Signature(ti.Host(), a.Alias)
	}
	return e, true
}

func printTypesTable(cmd *cobra.Command, entries []typeEntry) error {
	w := newTable(cmd.OutOrStdout())
	fmt.Fprintln(w, "INDEX\tNAME\tKIND\tGUID\tALIAS")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Index, e.Name, e.Kind, orDash(e.GUID), orDash(e.Alias))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printer.Fprintf(cmd.OutOrStdout(), "%d types\n", len(entries))
	return nil
}
