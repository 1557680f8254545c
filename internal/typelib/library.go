package typelib

import (
	"errors"
	"fmt"
	"iter"
	"strconv"

	"github.com/google/uuid"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
)

// ErrClosed is reported by attribute reads on a Library after Close.
var ErrClosed = errors.New("typelib: library closed")

// Library is a loaded type library. The GUID and version reported by its
// attribute block do not change for the lifetime of the handle.
type Library struct {
	sess     host.Session
	lib      host.TypeLib
	friendly string
}

// Open wraps lib, taking ownership of its reference. The friendly name is
// read once from the library's documentation string.
func Open(sess host.Session, lib host.TypeLib) *Library {
	l := &Library{sess: sess, lib: lib}
	if doc, err := libraryDoc(lib, host.DocString); err == nil {
		l.friendly = doc.String
	}
	return l
}

// FromTypeInfo wraps the library that contains ti. Its friendly name is the
// library's documented name; a failed lookup is returned as a
// DocumentationUnavailable error.
func FromTypeInfo(sess host.Session, ti host.TypeInfo) (*Library, error) {
	lib, _, err := ti.ContainingTypeLib()
	if err != nil {
		return nil, fmt.Errorf("containing library: %w", err)
	}
	doc, err := libraryDoc(lib, host.DocName)
	if err != nil {
		lib.Release()
		return nil, err
	}
	return &Library{sess: sess, lib: lib, friendly: doc.Name}, nil
}

// Close releases the library reference. Attribute reads after Close fail
// with ErrClosed; name lookups return "" and Types yields nothing.
func (l *Library) Close() {
	if l.lib != nil {
		l.lib.Release()
		l.lib = nil
	}
}

// Host returns the underlying library handle.
func (l *Library) Host() host.TypeLib {
	return l.lib
}

// attr reads one value out of a freshly acquired attribute block.
func attr[T any](l *Library, op string, read func(*host.LibAttr) T) (T, error) {
	var zero T
	if l.lib == nil {
		return zero, tlberr.AttributeUnavailable(op, ErrClosed)
	}
	a, err := l.lib.LibAttr()
	if err != nil {
		return zero, tlberr.AttributeUnavailable(op, err)
	}
	defer l.lib.ReleaseLibAttr(a)
	return read(a), nil
}

// GUID returns the library identifier.
func (l *Library) GUID() (uuid.UUID, error) {
	return attr(l, "guid", func(a *host.LibAttr) uuid.UUID { return a.GUID })
}

// MajorVersion returns the major version number.
func (l *Library) MajorVersion() (uint16, error) {
	return attr(l, "major version", func(a *host.LibAttr) uint16 { return a.Major })
}

// MinorVersion returns the minor version number.
func (l *Library) MinorVersion() (uint16, error) {
	return attr(l, "minor version", func(a *host.LibAttr) uint16 { return a.Minor })
}

// Flags returns the library flags.
func (l *Library) Flags() (uint16, error) {
	return attr(l, "flags", func(a *host.LibAttr) uint16 { return a.Flags })
}

// Version returns "major.minor" read as a decimal number.
func (l *Library) Version() (float64, error) {
	s, err := attr(l, "version", func(a *host.LibAttr) string {
		return strconv.Itoa(int(a.Major)) + "." + strconv.Itoa(int(a.Minor))
	})
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return v, nil
}

// Visible reports whether the library is listed for display. The predicate
// is true when no flag is set or when the restricted or hidden bit is set;
// this matches the host's behaviour and is intentionally not the naive
// reading of those flags.
func (l *Library) Visible() (bool, error) {
	return attr(l, "flags", func(a *host.LibAttr) bool { return visible(a.Flags) })
}

func visible(flags uint16) bool {
	return flags == 0 ||
		flags&host.LibFlagRestricted != 0 ||
		flags&host.LibFlagHidden != 0
}

// DisplayName returns the documented name of the library, or "".
func (l *Library) DisplayName() string {
	if l.lib == nil {
		return ""
	}
	doc, err := libraryDoc(l.lib, host.DocName)
	if err != nil {
		return ""
	}
	return doc.Name
}

// FriendlyName returns the name captured when the library was wrapped: the
// documentation string for Open (e.g. "OLE Automation"), the documented name
// for FromTypeInfo. It may be empty.
func (l *Library) FriendlyName() string {
	return l.friendly
}

// HelpFile returns the library's help file, or "".
func (l *Library) HelpFile() string {
	if l.lib == nil {
		return ""
	}
	doc, err := libraryDoc(l.lib, host.DocHelpFile)
	if err != nil {
		return ""
	}
	return doc.HelpFile
}

// ResolvedPath returns the registered on-disk path of this library for
// lcid. Libraries loaded straight from a file and never registered yield a
// NotFound error.
func (l *Library) ResolvedPath(lcid uint32) (string, error) {
	if l.lib == nil {
		return "", tlberr.AttributeUnavailable("path", ErrClosed)
	}
	a, err := l.lib.LibAttr()
	if err != nil {
		return "", tlberr.AttributeUnavailable("path", err)
	}
	guid, major, minor := a.GUID, a.Major, a.Minor
	l.lib.ReleaseLibAttr(a)

	path, err := l.sess.QueryPathOfRegTypeLib(guid, major, minor, lcid)
	if err != nil {
		id := host.FormatGUID(guid) + " " + strconv.Itoa(int(major)) + "." + strconv.Itoa(int(minor))
		return "", tlberr.NotFoundCause(id, err)
	}
	return path, nil
}

// Types yields every type of the library whose name can be looked up. Each
// call walks the library afresh; types whose documentation or type info
// cannot be read are skipped.
func (l *Library) Types() iter.Seq[*TypeInfo] {
	return func(yield func(*TypeInfo) bool) {
		if l.lib == nil {
			return
		}
		count := l.lib.TypeInfoCount()
		for i := 0; i < count; i++ {
			doc, err := l.lib.Documentation(i, host.DocName)
			if err != nil {
				continue
			}
			ti, err := l.lib.TypeInfo(i)
			if err != nil {
				continue
			}
			if !yield(&TypeInfo{Name: doc.Name, Index: i, info: ti, lib: l}) {
				return
			}
		}
	}
}
