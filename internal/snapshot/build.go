package snapshot

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/typedesc"
)

var sysKinds = map[string]host.SysKind{
	"win16": host.SysWin16,
	"win32": host.SysWin32,
	"mac":   host.SysMac,
	"win64": host.SysWin64,
}

// Open builds the catalog and host a snapshot describes.
func (d *Document) Open() (*catalog.Memory, *host.Memory, error) {
	cat := d.Catalog()
	h, err := d.Host(cat)
	if err != nil {
		return nil, nil, err
	}
	return cat, h, nil
}

// Catalog builds an in-memory catalog holding the snapshot's registrations
// and environment.
func (d *Document) Catalog() *catalog.Memory {
	cat := catalog.NewMemory()
	for name, value := range d.Environment {
		cat.SetEnv(name, value)
	}

	for _, tl := range d.TypeLibs {
		guid := keyGUID(tl.GUID)
		cat.CreateKey(catalog.Join(catalog.TypeLibRoot, guid))
		for _, v := range tl.Versions {
			vpath := catalog.Join(catalog.TypeLibRoot, guid, v.Version)
			if v.Name != "" {
				cat.Set(vpath, v.Name)
			} else {
				cat.CreateKey(vpath)
			}
			if v.Flags != "" {
				cat.Set(catalog.Join(vpath, "FLAGS"), v.Flags)
			}
			if v.HelpDir != "" {
				cat.Set(catalog.Join(vpath, "HELPDIR"), v.HelpDir)
			}
			for _, loc := range v.Locales {
				addLocale(cat, catalog.Join(vpath, loc.LCID), loc)
			}
		}
	}

	for _, c := range d.Classes {
		cpath := catalog.Join(catalog.CLSIDRoot, keyGUID(c.CLSID))
		if c.Name != "" {
			cat.Set(cpath, c.Name)
		} else {
			cat.CreateKey(cpath)
		}
		addServer(cat, cpath, "InprocServer32", c.InprocServer, c.AsValues)
		addServer(cat, cpath, "LocalServer32", c.LocalServer, c.AsValues)
	}

	for _, p := range d.ProgIDs {
		cat.Set(catalog.Join(p.ProgID, "CLSID"), p.CLSID)
	}
	return cat
}

func addLocale(cat *catalog.Memory, lpath string, loc Locale) {
	cat.CreateKey(lpath)
	for platform, file := range map[string]string{"win16": loc.Win16, "win32": loc.Win32, "win64": loc.Win64} {
		if file != "" {
			cat.Set(catalog.Join(lpath, platform), file)
		}
	}
}

func addServer(cat *catalog.Memory, cpath, server, value string, asValue bool) {
	switch {
	case value == "":
	case asValue:
		cat.SetValue(cpath, server, value)
	default:
		cat.Set(catalog.Join(cpath, server), value)
	}
}

// keyGUID renders a GUID the way the host names registry keys, leaving
// unparsable text alone.
func keyGUID(s string) string {
	u, err := host.ParseGUID(s)
	if err != nil {
		return s
	}
	return host.FormatGUID(u)
}

// Host builds an in-memory host serving the snapshot's libraries.
// Registered paths are answered from cat.
func (d *Document) Host(cat catalog.Catalog) (*host.Memory, error) {
	h := host.NewMemory(cat)
	for i, lib := range d.Libraries {
		spec, err := librarySpec(lib)
		if err != nil {
			return nil, fmt.Errorf("library %d (%s): %w", i, lib.Path, err)
		}
		h.Add(spec)
	}
	return h, nil
}

func librarySpec(lib Library) (host.LibrarySpec, error) {
	guid, err := optionalGUID(lib.GUID)
	if err != nil {
		return host.LibrarySpec{}, err
	}
	sys := host.SysWin32
	if lib.SysKind != "" {
		var ok bool
		if sys, ok = sysKinds[lib.SysKind]; !ok {
			return host.LibrarySpec{}, fmt.Errorf("unknown syskind %q", lib.SysKind)
		}
	}

	spec := host.LibrarySpec{
		Path: lib.Path,
		Attr: host.LibAttr{
			GUID:    guid,
			LCID:    lib.LCID,
			SysKind: sys,
			Major:   lib.Major,
			Minor:   lib.Minor,
			Flags:   lib.Flags,
		},
		Doc: host.Doc{Name: lib.Name, String: lib.Doc, HelpFile: lib.HelpFile},
	}

	index := make(map[string]int, len(lib.Types))
	for i, t := range lib.Types {
		if _, dup := index[t.Name]; !dup {
			index[t.Name] = i
		}
	}

	for _, t := range lib.Types {
		ts, err := typeSpec(t, index)
		if err != nil {
			return host.LibrarySpec{}, fmt.Errorf("type %s: %w", t.Name, err)
		}
		spec.Types = append(spec.Types, ts)
	}
	return spec, nil
}

func typeSpec(t Type, index map[string]int) (host.TypeSpec, error) {
	kind, ok := host.ParseTypeKind(t.Kind)
	if !ok {
		return host.TypeSpec{}, fmt.Errorf("unknown kind %q", t.Kind)
	}
	guid, err := optionalGUID(t.GUID)
	if err != nil {
		return host.TypeSpec{}, err
	}
	alias, err := hostDesc(t.Alias, index)
	if err != nil {
		return host.TypeSpec{}, err
	}
	return host.TypeSpec{
		Doc: host.Doc{Name: t.Name, String: t.Doc, HelpFile: t.HelpFile},
		Attr: host.TypeAttr{
			GUID:  guid,
			Kind:  kind,
			Major: t.Major,
			Minor: t.Minor,
			Flags: t.Flags,
			Alias: alias,
		},
		Undocumented: t.Undocumented,
		Broken:       t.Broken,
		Orphan:       t.Orphan,
	}, nil
}

// hostDesc converts a snapshot descriptor. USERDEFINED references resolve
// by type name within the library; unknown names stay unresolvable.
func hostDesc(td *TypeDesc, index map[string]int) (*host.TypeDesc, error) {
	if td == nil {
		return nil, nil
	}

	var vt host.VarType
	switch {
	case td.Code != nil:
		vt = host.VarType(*td.Code)
	default:
		var ok bool
		if vt, ok = typedesc.Lookup(td.VT); !ok {
			return nil, fmt.Errorf("unknown type mnemonic %q", td.VT)
		}
	}

	out := &host.TypeDesc{VT: vt}
	switch vt {
	case host.VTPtr, host.VTSafeArray, host.VTCArray:
		elem, err := hostDesc(td.Elem, index)
		if err != nil {
			return nil, err
		}
		out.Elem = elem
		for _, b := range td.Dims {
			out.Dims = append(out.Dims, host.ArrayBound{Elements: b.Elements, Lower: b.Lower})
		}
	case host.VTUserDefined:
		out.Ref = host.UnresolvedRef
		if i, ok := index[td.Ref]; ok {
			out.Ref = host.HRefType(i)
		}
	}
	return out, nil
}

func optionalGUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return host.ParseGUID(s)
}
