package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/config"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/snapshot"
	"go.uber.org/zap/zapcore"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, snapshot and host availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := &doctor{out: cmd.OutOrStdout()}
		d.checkConfigFile()
		d.checkSettings()
		d.checkSnapshot()
		d.checkHost()
		d.checkEnvironment()

		if d.failures > 0 {
			return fmt.Errorf("%d checks failed", d.failures)
		}
		return nil
	},
}

type doctor struct {
	out      io.Writer
	failures int
}

func (d *doctor) ok(format string, a ...any) {
	fmt.Fprintf(d.out, "%s %s\n", okMark, fmt.Sprintf(format, a...))
}

func (d *doctor) warn(format string, a ...any) {
	fmt.Fprintf(d.out, "%s %s\n", warnMark, fmt.Sprintf(format, a...))
}

func (d *doctor) fail(format string, a ...any) {
	d.failures++
	fmt.Fprintf(d.out, "%s %s\n", failMark, fmt.Sprintf(format, a...))
}

func (d *doctor) checkConfigFile() {
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		d.warn("No config file at %s (defaults in use)", path)
		return
	}
	d.ok("Config file %s", path)
}

func (d *doctor) checkSettings() {
	if _, err := zapcore.ParseLevel(config.LogLevel()); err != nil {
		d.fail("log_level %q is not a valid level", config.LogLevel())
	} else {
		d.ok("log_level %s", config.LogLevel())
	}
	if lcid, err := config.LCID(); err != nil {
		d.fail("%v", err)
	} else {
		d.ok("lcid %#x", lcid)
	}
}

func (d *doctor) checkSnapshot() {
	path := config.Snapshot()
	if path == "" {
		return
	}
	result, err := snapshot.ValidateFile(path)
	switch {
	case err != nil:
		d.fail("Snapshot %s: %v", path, err)
	case !result.Valid:
		d.fail("Snapshot %s has %s", path, printer.Sprintf("%d schema violations", len(result.Issues)))
	default:
		d.ok("Snapshot %s is valid", path)
	}
}

func (d *doctor) checkHost() {
	_, catErr := catalog.System()
	_, hostErr := host.System()
	if catErr == nil && hostErr == nil {
		d.ok("Host registry and type library loader available")
		return
	}

	err := errors.Join(catErr, hostErr)
	if config.Snapshot() != "" {
		d.warn("Host unavailable, using snapshot: %v", err)
		return
	}
	d.fail("Host unavailable and no snapshot configured: %v", err)
}

func (d *doctor) checkEnvironment() {
	env, err := openEnvironment()
	if err != nil {
		d.fail("Opening environment: %v", err)
		return
	}
	defer env.Close()

	entries, err := catalog.Entries(env.cat)
	if err != nil {
		d.warn("No TypeLib registrations in %s: %v", env.source, err)
		return
	}
	d.ok("%s", printer.Sprintf("%d registered files in %s", len(entries), env.source))
}
