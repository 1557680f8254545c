package host

import (
	"errors"

	"github.com/google/uuid"
)

// ErrUnsupported is returned by System on hosts without an OLE subsystem.
var ErrUnsupported = errors.New("host: type library reflection not supported on this platform")

// MemberIDNil is the documentation index that denotes the library itself.
const MemberIDNil = -1

// Library flags reported in LibAttr.Flags.
const (
	LibFlagRestricted   uint16 = 0x1
	LibFlagControl      uint16 = 0x2
	LibFlagHidden       uint16 = 0x4
	LibFlagHasDiskImage uint16 = 0x8
)

// Host opens sessions against the reflection subsystem.
type Host interface {
	Open() (Session, error)
}

// Session is the scoped COM/OLE initialization guard. Every loader call goes
// through a session; Close tears the initialization down and may be called
// more than once.
type Session interface {
	// LoadTypeLib loads a library from a path or loader-accepted descriptor
	// without registering it.
	LoadTypeLib(path string) (TypeLib, error)
	// QueryPathOfRegTypeLib returns the registered path of a library with
	// environment references expanded.
	QueryPathOfRegTypeLib(guid uuid.UUID, major, minor uint16, lcid uint32) (string, error)
	Close() error
}

// TypeLib is a loaded type library.
type TypeLib interface {
	// LibAttr acquires the attribute block. Callers release it with
	// ReleaseLibAttr before returning.
	LibAttr() (*LibAttr, error)
	ReleaseLibAttr(attr *LibAttr)
	// Documentation returns the documentation strings of the type at index,
	// or of the library itself for MemberIDNil.
	Documentation(index int, want DocField) (Doc, error)
	TypeInfoCount() int
	TypeInfo(index int) (TypeInfo, error)
	AddRef()
	Release()
}

// TypeInfo describes one type declared in a library.
type TypeInfo interface {
	// ContainingTypeLib returns the owning library, with a reference the
	// caller must release, and the index of this type within it.
	ContainingTypeLib() (TypeLib, int, error)
	// RefTypeInfo resolves a user-defined type reference.
	RefTypeInfo(ref HRefType) (TypeInfo, error)
	TypeAttr() (*TypeAttr, error)
	ReleaseTypeAttr(attr *TypeAttr)
	Release()
}

// SysKind is the target platform a library was built for.
type SysKind int32

const (
	SysWin16 SysKind = iota
	SysWin32
	SysMac
	SysWin64
)

// LibAttr is the attribute block of a library.
type LibAttr struct {
	GUID    uuid.UUID
	LCID    uint32
	SysKind SysKind
	Major   uint16
	Minor   uint16
	Flags   uint16
}

// TypeKind classifies a declared type.
type TypeKind int32

const (
	KindEnum TypeKind = iota
	KindRecord
	KindModule
	KindInterface
	KindDispatch
	KindCoClass
	KindAlias
	KindUnion
)

var typeKindNames = [...]string{"enum", "record", "module", "interface", "dispatch", "coclass", "alias", "union"}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// ParseTypeKind returns the kind named s.
func ParseTypeKind(s string) (TypeKind, bool) {
	for i, name := range typeKindNames {
		if name == s {
			return TypeKind(i), true
		}
	}
	return 0, false
}

// TypeAttr is the attribute block of a type. Alias is set for KindAlias.
type TypeAttr struct {
	GUID  uuid.UUID
	Kind  TypeKind
	Major uint16
	Minor uint16
	Flags uint16
	Alias *TypeDesc
}

// DocField selects which documentation strings to fetch.
type DocField uint8

const (
	DocName DocField = 1 << iota
	DocString
	DocHelpFile

	DocAll = DocName | DocString | DocHelpFile
)

// Doc holds the documentation strings of a library or type. Fields not
// requested are left empty.
type Doc struct {
	Name        string
	String      string
	HelpContext uint32
	HelpFile    string
}

// Failures reported by the host. The OLE implementation wraps the
// corresponding HRESULTs so errors.Is works across implementations.
var (
	ErrElementNotFound  = errors.New("host: element not found")
	ErrCantLoadLibrary  = errors.New("host: cannot load type library")
	ErrLibNotRegistered = errors.New("host: library not registered")
	ErrSessionClosed    = errors.New("host: session closed")
)
