//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/snapshot"
)

// testEnv holds the isolated directories of one test.
type testEnv struct {
	HomeDir     string // $HOME, so ~/.tlbx/config.yaml is sandboxed
	SnapshotDir string // where snapshots are written
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them. The environment is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		SnapshotDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)
	return env
}

// writeSnapshot writes a synthetic snapshot with every registration shape
// the resolver handles and returns its path.
func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "catalog.yaml")
	writeFile(t, path, `environment:
  SystemRoot: 'C:\Windows'
  ProgramFiles: 'C:\Program Files'

typelibs:
  - guid: "{11111111-2222-3333-4444-555555555555}"
    versions:
      - version: "1.0"
        name: Widget Library 1.0
        locales:
          - lcid: "0"
            win32: '%ProgramFiles%\Widgets\widget10.tlb'
      - version: "2.0"
        name: Widget Library 2.0
        locales:
          - lcid: "0"
            win32: '%ProgramFiles%\Widgets\widget20.tlb'
            win64: '%ProgramFiles%\Widgets\widget20-x64.tlb'
          - lcid: "9"
            win32: '%ProgramFiles%\Widgets\widget20-en.tlb'
      - version: "1.5"
        name: Widget Library 1.5
        locales:
          - lcid: "0"
            win32: '%ProgramFiles%\Widgets\widget15.tlb'

classes:
  - clsid: "{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}"
    name: Widget Application
    local_server: '"%ProgramFiles%\Widgets\widget.exe" /automation'

progids:
  - progid: Widget.Application
    clsid: "{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}"

libraries:
  - path: 'C:\Program Files\Widgets\widget10.tlb'
    guid: "{11111111-2222-3333-4444-555555555555}"
    major: 1
    name: Widgets
    doc: Widget Library 1.0
  - path: 'C:\Program Files\Widgets\widget15.tlb'
    guid: "{11111111-2222-3333-4444-555555555555}"
    major: 1
    minor: 5
    name: Widgets
    doc: Widget Library 1.5
  - path: 'C:\Program Files\Widgets\widget20-x64.tlb'
    guid: "{11111111-2222-3333-4444-555555555555}"
    syskind: win64
    major: 2
    name: Widgets
    doc: Widget Library 2.0
    types:
      - name: IWidget
        kind: dispatch
        guid: "{11111111-2222-3333-4444-666666666666}"
      - name: WIDGETS
        kind: alias
        alias: { vt: PTR, elem: { vt: SAFEARRAY, elem: { vt: USERDEFINED, ref: IWidget } } }
      - name: Color
        kind: enum
  - path: 'C:\Program Files\Widgets\widget20-en.tlb'
    guid: "{11111111-2222-3333-4444-555555555555}"
    lcid: 9
    major: 2
    name: Widgets
    doc: Widget Library 2.0 (English)
`)
	return path
}

// openSnapshot loads path and opens a session on the host it describes.
func openSnapshot(t *testing.T, path string) (catalog.Catalog, *host.Memory, host.Session) {
	t.Helper()

	doc, err := snapshot.Load(path)
	if err != nil {
		t.Fatalf("loading %s: %v", path, err)
	}
	cat, h, err := doc.Open()
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	sess, err := h.Open()
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return cat, h, sess
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertHasSuffixFold fails unless s ends with suffix, ignoring case.
func assertHasSuffixFold(t *testing.T, s, suffix string) {
	t.Helper()
	if !strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix)) {
		t.Errorf("%q does not end with %q", s, suffix)
	}
}
