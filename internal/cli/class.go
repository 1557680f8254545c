package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(classCmd)
}

var classCmd = &cobra.Command{
	Use:   "class <clsid|progid|library-name>",
	Short: "Print the file backing a class, ProgID or library name",
	Long: `Print the file registered for a class. A CLSID or ProgID is looked up in the
class registrations (in-process server first, then local server); otherwise the
identifier is matched against registered type library display names.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		path, err := env.resolver().ResolveByClass(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
