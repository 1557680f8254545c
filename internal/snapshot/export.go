package snapshot

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/typedesc"
	"github.com/tlbx-labs/tlbx/internal/typelib"
	"go.uber.org/zap"
)

// Export captures the TypeLib registrations of cat and, for every
// registered file that sess can load, the library's contents. Paths are
// stored expanded so the result needs no environment. Files that fail to
// load are kept as registrations only.
func Export(cat catalog.Catalog, sess host.Session, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := catalog.Entries(cat)
	if err != nil {
		return nil, fmt.Errorf("enumerating registrations: %w", err)
	}

	doc := &Document{}
	exported := make(map[string]bool)
	for _, e := range entries {
		path := cat.ExpandEnv(e.Path)
		addEntry(doc, e, path)
		if path == "" || exported[path] {
			continue
		}
		exported[path] = true

		lib, err := exportLibrary(sess, path)
		if err != nil {
			log.Debug("registered file not exported",
				zap.String("guid", e.GUID),
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		doc.Libraries = append(doc.Libraries, lib)
	}
	return doc, nil
}

func addEntry(doc *Document, e catalog.Entry, path string) {
	i := slices.IndexFunc(doc.TypeLibs, func(tl TypeLib) bool { return tl.GUID == e.GUID })
	if i < 0 {
		doc.TypeLibs = append(doc.TypeLibs, TypeLib{GUID: e.GUID})
		i = len(doc.TypeLibs) - 1
	}
	tl := &doc.TypeLibs[i]

	j := slices.IndexFunc(tl.Versions, func(v Version) bool { return v.Version == e.Version })
	if j < 0 {
		tl.Versions = append(tl.Versions, Version{Version: e.Version, Name: e.Name})
		j = len(tl.Versions) - 1
	}
	v := &tl.Versions[j]
	if e.Locale == "" {
		return
	}

	k := slices.IndexFunc(v.Locales, func(l Locale) bool { return l.LCID == e.Locale })
	if k < 0 {
		v.Locales = append(v.Locales, Locale{LCID: e.Locale})
		k = len(v.Locales) - 1
	}
	loc := &v.Locales[k]
	switch e.Platform {
	case "win16":
		loc.Win16 = path
	case "win32":
		loc.Win32 = path
	case "win64":
		loc.Win64 = path
	}
}

func exportLibrary(sess host.Session, path string) (Library, error) {
	tl, err := sess.LoadTypeLib(path)
	if err != nil {
		return Library{}, err
	}
	lib := typelib.Open(sess, tl)
	defer lib.Close()

	a, err := tl.LibAttr()
	if err != nil {
		return Library{}, fmt.Errorf("library attributes: %w", err)
	}
	out := Library{
		Path:    path,
		GUID:    host.FormatGUID(a.GUID),
		LCID:    a.LCID,
		SysKind: sysKindName(a.SysKind),
		Major:   a.Major,
		Minor:   a.Minor,
		Flags:   a.Flags,
	}
	tl.ReleaseLibAttr(a)

	if d, err := tl.Documentation(host.MemberIDNil, host.DocAll); err == nil {
		out.Name, out.Doc, out.HelpFile = d.Name, d.String, d.HelpFile
	}

	for ti := range lib.Types() {
		t, err := exportType(ti)
		ti.Release()
		if err != nil {
			continue
		}
		out.Types = append(out.Types, t)
	}
	return out, nil
}

func exportType(ti *typelib.TypeInfo) (Type, error) {
	a, err := ti.Attr()
	if err != nil {
		return Type{}, err
	}
	t := Type{
		Name:  ti.Name,
		Kind:  a.Kind.String(),
		Major: a.Major,
		Minor: a.Minor,
		Flags: a.Flags,
		Alias: snapshotDesc(ti.Host(), a.Alias),
	}
	if a.GUID != uuid.Nil {
		t.GUID = host.FormatGUID(a.GUID)
	}
	if d, err := ti.Documentation(); err == nil {
		t.Doc, t.HelpFile = d.String, d.HelpFile
	}
	return t, nil
}

func snapshotDesc(owner host.TypeInfo, td *host.TypeDesc) *TypeDesc {
	if td == nil {
		return nil
	}

	out := &TypeDesc{}
	if name := typedesc.Mnemonic(td.VT); isMnemonic(name) {
		out.VT = name
	} else {
		code := int(td.VT)
		out.Code = &code
	}

	switch td.VT {
	case host.VTPtr, host.VTSafeArray, host.VTCArray:
		out.Elem = snapshotDesc(owner, td.Elem)
		for _, b := range td.Dims {
			out.Dims = append(out.Dims, Bound{Elements: b.Elements, Lower: b.Lower})
		}
	case host.VTUserDefined:
		out.Ref = refName(owner, td.Ref)
	}
	return out
}

func isMnemonic(name string) bool {
	_, ok := typedesc.Lookup(name)
	return ok
}

func refName(owner host.TypeInfo, ref host.HRefType) string {
	ri, err := owner.RefTypeInfo(ref)
	if err != nil {
		return ""
	}
	defer ri.Release()
	return typelib.Name(ri)
}

func sysKindName(k host.SysKind) string {
	for name, kind := range sysKinds {
		if kind == k {
			return name
		}
	}
	return ""
}
