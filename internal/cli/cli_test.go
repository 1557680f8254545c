package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlbx-labs/tlbx/internal/snapshot"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
)

var fixture = filepath.Join("testdata", "catalog.yaml")

// execute runs the root command with a fresh home directory and flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "resolve", "OLE Automation")
	require.NoError(t, err)

	assert.Contains(t, out, "stdole")
	assert.Contains(t, out, "{00020430-0000-0000-C000-000000000046}")
	assert.Contains(t, out, `C:\Windows\system32\stdole2.tlb`)
	assert.Regexp(t, `Version:\s+2\.0`, out)
	assert.Regexp(t, `Types:\s+4`, out)
}

func TestResolveCommandJSON(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "resolve", "--json", "{00020430-0000-0000-C000-000000000046}")
	require.NoError(t, err)

	var info libraryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "stdole", info.Name)
	assert.Equal(t, "OLE Automation", info.Description)
	assert.Equal(t, "2.0", info.Version)
	assert.True(t, info.Visible)
	assert.Equal(t, 4, info.Types)
}

func TestVersionsUseRegistryKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minor.yaml")
	doc := `typelibs:
  - guid: "{9A9A9A9A-0000-0000-0000-000000000010}"
    versions:
      - version: "2.a"
        name: Ten Minor
        locales:
          - lcid: "0"
            win32: 'C:\ten.tlb'
libraries:
  - path: 'C:\ten.tlb'
    guid: "{9A9A9A9A-0000-0000-0000-000000000010}"
    major: 2
    minor: 10
    name: TenMinor
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "--snapshot", path, "resolve", "--json", "Ten Minor")
	require.NoError(t, err)
	var info libraryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "2.a", info.Version)

	out, err = execute(t, "--snapshot", path, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2.a")
}

func TestResolveCommandNotFound(t *testing.T) {
	_, err := execute(t, "--snapshot", fixture, "resolve", "Unregistered.Nonexistent.Library")
	require.Error(t, err)
	assert.ErrorIs(t, err, tlberr.ErrNotFound)
	assert.Contains(t, err.Error(), "Unregistered.Nonexistent.Library")
}

func TestClassCommand(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "class", "Scripting.FileSystemObject")
	require.NoError(t, err)
	assert.Equal(t, `C:\Windows\system32\scrrun.dll`, strings.TrimSpace(out))
}

func TestGUIDCommand(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "guid", "--json", "420B2830-E718-11CF-893D-00A0C9054228", "1", "0")
	require.NoError(t, err)

	var info libraryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "Scripting", info.Name)
	assert.Equal(t, `C:\Windows\system32\scrrun.dll`, info.Path)
}

func TestGUIDCommandRejectsBadVersion(t *testing.T) {
	_, err := execute(t, "--snapshot", fixture, "guid", "420B2830-E718-11CF-893D-00A0C9054228", "x", "0")
	assert.ErrorContains(t, err, "invalid major version")
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "types", "--kind", "alias", "OLE Automation")
	require.NoError(t, err)

	assert.Contains(t, out, "OLE_COLOR")
	assert.Contains(t, out, "PTR USERDEFINED IDispatch")
	assert.NotContains(t, out, "IUnknown")
	assert.Contains(t, out, "2 types")
}

func TestTypesCommandJSON(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "types", "--json", "OLE Automation")
	require.NoError(t, err)

	var entries []typeEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, "IUnknown", entries[0].Name)
	assert.Equal(t, "interface", entries[0].Kind)
	assert.Equal(t, "UI4", entries[2].Alias)
}

func TestTypesCommandRejectsUnknownKind(t *testing.T) {
	_, err := execute(t, "--snapshot", fixture, "types", "--kind", "widget", "OLE Automation")
	assert.ErrorContains(t, err, "unknown type kind")
}

func TestCatalogList(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all",
			args: nil,
			want: []string{"OLE Automation", "Microsoft Scripting Runtime", "2 registrations"},
		},
		{
			name:    "constraint",
			args:    []string{"--constraint", ">= 2.0"},
			want:    []string{"OLE Automation", "1 registrations"},
			notWant: []string{"Scripting"},
		},
		{
			name:    "name filter",
			args:    []string{"--name", "scripting"},
			want:    []string{`C:\Windows\system32\scrrun.dll`},
			notWant: []string{"OLE Automation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--snapshot", fixture, "catalog", "list"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestCatalogListRejectsBadConstraint(t *testing.T) {
	_, err := execute(t, "--snapshot", fixture, "catalog", "list", "--constraint", "not a version")
	assert.ErrorContains(t, err, "parsing constraint")
}

func TestCatalogValidate(t *testing.T) {
	out, err := execute(t, "catalog", "validate", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK]")

	out, err = execute(t, "catalog", "validate", filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL]")
	assert.Contains(t, out, "/typelibs/0/versions/0")
}

func TestCatalogExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.toml.zst")
	out, err := execute(t, "--snapshot", fixture, "catalog", "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 type libraries with 2 loadable files")

	doc, err := snapshot.Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Libraries, 2)
	assert.Equal(t, "stdole", doc.Libraries[0].Name)
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()
	run := func(args ...string) string {
		t.Helper()
		t.Setenv("HOME", home)
		t.Setenv("USERPROFILE", home)
		viper.Reset()
		resetFlags(rootCmd)
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}
	t.Cleanup(viper.Reset)

	assert.Contains(t, run("config", "set", "lcid", "0x409"), "Set lcid = 0x409")
	assert.Equal(t, "0x409", strings.TrimSpace(run("config", "get", "lcid")))
	assert.Regexp(t, `lcid\s+0x409`, run("config", "list"))
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	_, err := execute(t, "config", "set", "mirror", "x")
	assert.ErrorContains(t, err, "unknown config key")
}

func TestVersionCommand(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", strings.TrimSpace(out))

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `tlbx\s+1\.2\.3`, out)
	assert.Regexp(t, `Commit:\s+abc123`, out)
	assert.Regexp(t, `Built:\s+2026-01-01`, out)
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info buildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "tlbx", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.GOOS == "windows", info.Host)
}

func TestDoctorWithSnapshot(t *testing.T) {
	out, err := execute(t, "--snapshot", fixture, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "2 registered files in "+fixture)
}

func TestRejectsBadLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "chatty", "version")
	assert.ErrorContains(t, err, "parsing log level")
}
