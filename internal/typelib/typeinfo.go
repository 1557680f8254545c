package typelib

import (
	"github.com/google/uuid"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
)

// TypeInfo is a type declared in a Library. It is only valid while the
// library is open and must be released by the caller.
type TypeInfo struct {
	Name  string
	Index int

	info host.TypeInfo
	lib  *Library
}

// Attr is a snapshot of a type's attribute block.
type Attr struct {
	GUID  uuid.UUID
	Kind  host.TypeKind
	Major uint16
	Minor uint16
	Flags uint16
	Alias *host.TypeDesc
}

// Host returns the underlying type info handle.
func (t *TypeInfo) Host() host.TypeInfo {
	return t.info
}

// Library returns the library the type was enumerated from.
func (t *TypeInfo) Library() *Library {
	return t.lib
}

// Attr reads the type's attribute block and releases it before returning.
func (t *TypeInfo) Attr() (Attr, error) {
	a, err := t.info.TypeAttr()
	if err != nil {
		return Attr{}, tlberr.AttributeUnavailable("type attributes", err)
	}
	defer t.info.ReleaseTypeAttr(a)
	return Attr{
		GUID:  a.GUID,
		Kind:  a.Kind,
		Major: a.Major,
		Minor: a.Minor,
		Flags: a.Flags,
		Alias: a.Alias,
	}, nil
}

// Documentation returns the full documentation of the type.
func (t *TypeInfo) Documentation() (host.Doc, error) {
	return Documentation(t.info, host.DocAll)
}

// Release releases the type info handle.
func (t *TypeInfo) Release() {
	if t.info != nil {
		t.info.Release()
		t.info = nil
	}
}
