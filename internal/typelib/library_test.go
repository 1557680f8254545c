package typelib

import (
	"errors"
	"slices"
	"testing"

	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
)

const (
	libGUID   = "{3F4DACA7-160D-11D2-A8E9-00104B365C9F}"
	libPath   = `C:\Windows\System32\vbscript.dll\3`
	loosePath = `C:\work\unregistered.tlb`
)

type fixture struct {
	h    *host.Memory
	sess host.Session
}

func newFixture(t *testing.T, flags uint16) *fixture {
	t.Helper()
	cat := catalog.NewMemory()
	cat.Set(`TypeLib\`+libGUID+`\5.5`, "Microsoft VBScript Regular Expressions 5.5")
	cat.Set(`TypeLib\`+libGUID+`\5.5\0\win32`, libPath)

	guid, err := host.ParseGUID(libGUID)
	if err != nil {
		t.Fatal(err)
	}

	h := host.NewMemory(cat)
	h.Add(host.LibrarySpec{
		Path: libPath,
		Attr: host.LibAttr{GUID: guid, Major: 5, Minor: 5, Flags: flags},
		Doc:  host.Doc{Name: "VBScript_RegExp_55", String: "Microsoft VBScript Regular Expressions 5.5", HelpFile: "vbscript.chm"},
		Types: []host.TypeSpec{
			{Doc: host.Doc{Name: "IRegExp"}, Attr: host.TypeAttr{Kind: host.KindDispatch}},
			{Doc: host.Doc{Name: "Secret"}, Undocumented: true},
			{Doc: host.Doc{Name: "Unreadable"}, Broken: true},
			{Doc: host.Doc{Name: "RegExp", String: "Regular expression object"}, Attr: host.TypeAttr{Kind: host.KindCoClass}},
		},
	})
	h.Add(host.LibrarySpec{
		Path: loosePath,
		Attr: host.LibAttr{GUID: guid, Major: 9, Minor: 9},
	})

	sess, err := h.Open()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sess.Close() })
	return &fixture{h: h, sess: sess}
}

func (f *fixture) open(t *testing.T, path string) *Library {
	t.Helper()
	lib, err := f.sess.LoadTypeLib(path)
	if err != nil {
		t.Fatalf("LoadTypeLib(%s): %v", path, err)
	}
	return Open(f.sess, lib)
}

func TestLibraryAttributes(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)
	defer lib.Close()

	guid, err := lib.GUID()
	if err != nil {
		t.Fatalf("GUID: %v", err)
	}
	if host.FormatGUID(guid) != libGUID {
		t.Errorf("GUID = %s, want %s", host.FormatGUID(guid), libGUID)
	}

	major, err := lib.MajorVersion()
	if err != nil || major != 5 {
		t.Errorf("MajorVersion = %d, %v; want 5", major, err)
	}
	minor, err := lib.MinorVersion()
	if err != nil || minor != 5 {
		t.Errorf("MinorVersion = %d, %v; want 5", minor, err)
	}
	v, err := lib.Version()
	if err != nil || v != 5.5 {
		t.Errorf("Version = %v, %v; want 5.5", v, err)
	}

	if f.h.OutstandingAttrs() != 0 {
		t.Errorf("OutstandingAttrs = %d, want 0 (blocks must be released per call)", f.h.OutstandingAttrs())
	}
}

func TestLibraryNames(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)
	defer lib.Close()

	if got := lib.DisplayName(); got != "VBScript_RegExp_55" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := lib.FriendlyName(); got != "Microsoft VBScript Regular Expressions 5.5" {
		t.Errorf("FriendlyName = %q", got)
	}
	if got := lib.HelpFile(); got != "vbscript.chm" {
		t.Errorf("HelpFile = %q", got)
	}
}

func TestLibraryNamesMayBeEmpty(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, loosePath)
	defer lib.Close()

	if lib.DisplayName() != "" || lib.FriendlyName() != "" {
		t.Errorf("names = %q, %q; want empty", lib.DisplayName(), lib.FriendlyName())
	}
}

// The visibility predicate mirrors the host: hidden and restricted
// libraries report visible, libraries with only other flags do not.
func TestLibraryVisibleIsInverted(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
		want  bool
	}{
		{"no flags", 0, true},
		{"hidden only", host.LibFlagHidden, true},
		{"restricted only", host.LibFlagRestricted, true},
		{"control only", host.LibFlagControl, false},
		{"disk image only", host.LibFlagHasDiskImage, false},
		{"control and hidden", host.LibFlagControl | host.LibFlagHidden, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.flags)
			lib := f.open(t, libPath)
			defer lib.Close()

			got, err := lib.Visible()
			if err != nil {
				t.Fatalf("Visible: %v", err)
			}
			if got != tt.want {
				t.Errorf("Visible() with flags %#x = %v, want %v", tt.flags, got, tt.want)
			}
		})
	}
}

func TestLibraryResolvedPath(t *testing.T) {
	f := newFixture(t, 0)

	lib := f.open(t, libPath)
	defer lib.Close()
	path, err := lib.ResolvedPath(0)
	if err != nil {
		t.Fatalf("ResolvedPath: %v", err)
	}
	if path != libPath {
		t.Errorf("ResolvedPath = %q, want %q", path, libPath)
	}

	loose := f.open(t, loosePath)
	defer loose.Close()
	_, err = loose.ResolvedPath(0)
	if !errors.Is(err, tlberr.ErrNotFound) {
		t.Errorf("ResolvedPath of unregistered library err = %v, want NotFound", err)
	}
	if !errors.Is(err, host.ErrLibNotRegistered) {
		t.Errorf("ResolvedPath err = %v, want it to wrap ErrLibNotRegistered", err)
	}
}

func TestLibraryTypesSkipsFailures(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)
	defer lib.Close()

	var names []string
	for ti := range lib.Types() {
		names = append(names, ti.Name)
		ti.Release()
	}

	want := []string{"IRegExp", "RegExp"}
	if !slices.Equal(names, want) {
		t.Errorf("Types() = %v, want %v", names, want)
	}

	// A second walk produces the same sequence.
	var again []string
	for ti := range lib.Types() {
		again = append(again, ti.Name)
		ti.Release()
	}
	if !slices.Equal(again, want) {
		t.Errorf("second Types() = %v, want %v", again, want)
	}
}

func TestLibraryTypesStopsEarly(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)

	for ti := range lib.Types() {
		ti.Release()
		break
	}
	lib.Close()

	if f.h.LiveRefs() != 0 {
		t.Errorf("LiveRefs = %d, want 0", f.h.LiveRefs())
	}
}

func TestTypeInfoAttrAndDocumentation(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)
	defer lib.Close()

	var regexp *TypeInfo
	for ti := range lib.Types() {
		if ti.Name == "RegExp" {
			regexp = ti
			continue
		}
		ti.Release()
	}
	if regexp == nil {
		t.Fatal("RegExp not enumerated")
	}
	defer regexp.Release()

	if regexp.Library() != lib {
		t.Error("Library() does not return the enumerating library")
	}

	attr, err := regexp.Attr()
	if err != nil {
		t.Fatalf("Attr: %v", err)
	}
	if attr.Kind != host.KindCoClass {
		t.Errorf("Kind = %v, want coclass", attr.Kind)
	}

	doc, err := regexp.Documentation()
	if err != nil {
		t.Fatalf("Documentation: %v", err)
	}
	if doc.Name != "RegExp" || doc.String != "Regular expression object" {
		t.Errorf("Documentation = %+v", doc)
	}
	if got := Name(regexp.Host()); got != "RegExp" {
		t.Errorf("Name = %q", got)
	}
	if f.h.OutstandingAttrs() != 0 {
		t.Errorf("OutstandingAttrs = %d, want 0", f.h.OutstandingAttrs())
	}
}

func TestFromTypeInfo(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)
	defer lib.Close()

	ti, err := lib.Host().TypeInfo(0)
	if err != nil {
		t.Fatal(err)
	}
	defer ti.Release()

	owner, err := FromTypeInfo(f.sess, ti)
	if err != nil {
		t.Fatalf("FromTypeInfo: %v", err)
	}
	defer owner.Close()

	if owner.DisplayName() != "VBScript_RegExp_55" {
		t.Errorf("DisplayName = %q", owner.DisplayName())
	}
	if owner.FriendlyName() != "VBScript_RegExp_55" {
		t.Errorf("FriendlyName = %q, want the documented name", owner.FriendlyName())
	}
}

func TestFromTypeInfoUndocumentedLibrary(t *testing.T) {
	h := host.NewMemory(nil)
	h.Add(host.LibrarySpec{
		Path:         "nameless.tlb",
		Undocumented: true,
		Types:        []host.TypeSpec{{Doc: host.Doc{Name: "Member"}}},
	})
	sess, _ := h.Open()
	defer sess.Close()

	lib, err := sess.LoadTypeLib("nameless.tlb")
	if err != nil {
		t.Fatal(err)
	}
	ti, err := lib.TypeInfo(0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = FromTypeInfo(sess, ti)
	if !errors.Is(err, tlberr.ErrDocumentationUnavailable) {
		t.Errorf("FromTypeInfo err = %v, want DocumentationUnavailable", err)
	}

	ti.Release()
	lib.Release()
	if h.LiveRefs() != 0 {
		t.Errorf("LiveRefs = %d, want 0", h.LiveRefs())
	}
}

func TestLibraryAfterClose(t *testing.T) {
	f := newFixture(t, 0)
	lib := f.open(t, libPath)
	lib.Close()
	lib.Close()

	if _, err := lib.GUID(); !errors.Is(err, tlberr.ErrAttributeUnavailable) || !errors.Is(err, ErrClosed) {
		t.Errorf("GUID err = %v, want AttributeUnavailable wrapping ErrClosed", err)
	}
	if _, err := lib.Flags(); !errors.Is(err, ErrClosed) {
		t.Errorf("Flags err = %v, want ErrClosed", err)
	}
	if _, err := lib.ResolvedPath(0); !errors.Is(err, ErrClosed) {
		t.Errorf("ResolvedPath err = %v, want ErrClosed", err)
	}
	if lib.DisplayName() != "" || lib.HelpFile() != "" {
		t.Errorf("names after Close = %q, %q", lib.DisplayName(), lib.HelpFile())
	}
	for ti := range lib.Types() {
		t.Errorf("Types yielded %q after Close", ti.Name)
	}
	if f.h.LiveRefs() != 0 {
		t.Errorf("LiveRefs = %d, want 0", f.h.LiveRefs())
	}
}

func TestDocumentationOrphanType(t *testing.T) {
	h := host.NewMemory(nil)
	h.Add(host.LibrarySpec{
		Path:  "orphan.tlb",
		Types: []host.TypeSpec{{Doc: host.Doc{Name: "Lost"}, Orphan: true}},
	})
	sess, _ := h.Open()
	defer sess.Close()

	lib, err := sess.LoadTypeLib("orphan.tlb")
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Release()
	ti, err := lib.TypeInfo(0)
	if err != nil {
		t.Fatal(err)
	}
	defer ti.Release()

	_, err = Documentation(ti, host.DocName)
	if !errors.Is(err, tlberr.ErrDocumentationUnavailable) {
		t.Errorf("Documentation err = %v, want DocumentationUnavailable", err)
	}
	if Name(ti) != "" {
		t.Errorf("Name = %q, want empty", Name(ti))
	}
}
