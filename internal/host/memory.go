package host

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/vernum"
)

// UnresolvedRef is a reference handle the memory host never resolves.
const UnresolvedRef HRefType = 0xFFFFFFFF

// LibrarySpec describes a library served by the memory host. Undocumented
// makes the library's own documentation query fail.
type LibrarySpec struct {
	Path         string
	Attr         LibAttr
	Doc          Doc
	Types        []TypeSpec
	Undocumented bool
}

// TypeSpec describes one type of a LibrarySpec. Undocumented makes its
// documentation query fail, Broken makes TypeInfo fail, and Orphan makes
// ContainingTypeLib fail. USERDEFINED descriptors reference other types by
// their index in LibrarySpec.Types.
type TypeSpec struct {
	Doc          Doc
	Attr         TypeAttr
	Undocumented bool
	Broken       bool
	Orphan       bool
}

// Memory is a host backed by in-memory library descriptions. Registered
// paths are answered from a catalog, the same way the OLE host consults the
// system registry.
type Memory struct {
	mu       sync.Mutex
	cat      catalog.Catalog
	libs     map[string]*LibrarySpec
	sessions int
	attrs    int
	refs     int
}

// NewMemory returns an empty memory host answering registration queries
// from cat. cat may be nil, in which case nothing is registered.
func NewMemory(cat catalog.Catalog) *Memory {
	return &Memory{cat: cat, libs: make(map[string]*LibrarySpec)}
}

// Add makes a library loadable by its path, matched case-insensitively.
func (m *Memory) Add(spec LibrarySpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := spec
	m.libs[strings.ToLower(spec.Path)] = &s
}

// Open implements Host.
func (m *Memory) Open() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions++
	return &memSession{m: m}, nil
}

// OpenSessions returns the number of sessions not yet closed.
func (m *Memory) OpenSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions
}

// OutstandingAttrs returns the number of attribute blocks acquired and not
// yet released.
func (m *Memory) OutstandingAttrs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attrs
}

// LiveRefs returns the number of library and type info references not yet
// released.
func (m *Memory) LiveRefs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refs
}

func (m *Memory) adjust(counter *int, delta int) {
	m.mu.Lock()
	*counter += delta
	m.mu.Unlock()
}

type memSession struct {
	m      *Memory
	mu     sync.Mutex
	closed bool
}

func (s *memSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *memSession) LoadTypeLib(path string) (TypeLib, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	s.m.mu.Lock()
	spec, ok := s.m.libs[strings.ToLower(path)]
	s.m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("loading %s: %w", path, ErrCantLoadLibrary)
	}
	s.m.adjust(&s.m.refs, 1)
	return &memTypeLib{m: s.m, spec: spec}, nil
}

func (s *memSession) QueryPathOfRegTypeLib(guid uuid.UUID, major, minor uint16, lcid uint32) (string, error) {
	if s.isClosed() {
		return "", ErrSessionClosed
	}
	if s.m.cat == nil {
		return "", ErrLibNotRegistered
	}

	key := catalog.Join(catalog.TypeLibRoot, FormatGUID(guid), vernum.RegKey(major, minor))
	hversion, err := s.m.cat.Open(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, ErrLibNotRegistered)
	}
	defer hversion.Close()

	for _, locale := range localeFallback(lcid) {
		hlcid, err := hversion.OpenSubKey(locale)
		if err != nil {
			continue
		}
		path, ok := catalog.PlatformPath(hlcid)
		hlcid.Close()
		if ok {
			return s.m.cat.ExpandEnv(path), nil
		}
	}
	return "", fmt.Errorf("%s for locale %x: %w", key, lcid, ErrLibNotRegistered)
}

// localeFallback lists the locale keys tried for lcid: the exact locale, its
// primary language, then the neutral locale.
func localeFallback(lcid uint32) []string {
	keys := []string{strconv.FormatUint(uint64(lcid), 16)}
	if primary := lcid & 0x3ff; primary != lcid {
		keys = append(keys, strconv.FormatUint(uint64(primary), 16))
	}
	if lcid != 0 {
		keys = append(keys, "0")
	}
	return keys
}

func (s *memSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.m.adjust(&s.m.sessions, -1)
	return nil
}

type memTypeLib struct {
	m    *Memory
	spec *LibrarySpec
}

func (l *memTypeLib) LibAttr() (*LibAttr, error) {
	attr := l.spec.Attr
	l.m.adjust(&l.m.attrs, 1)
	return &attr, nil
}

func (l *memTypeLib) ReleaseLibAttr(attr *LibAttr) {
	if attr != nil {
		l.m.adjust(&l.m.attrs, -1)
	}
}

func (l *memTypeLib) Documentation(index int, want DocField) (Doc, error) {
	var doc Doc
	switch {
	case index == MemberIDNil:
		if l.spec.Undocumented {
			return Doc{}, fmt.Errorf("library documentation: %w", ErrElementNotFound)
		}
		doc = l.spec.Doc
	case index >= 0 && index < len(l.spec.Types):
		t := l.spec.Types[index]
		if t.Undocumented {
			return Doc{}, fmt.Errorf("documentation of type %d: %w", index, ErrElementNotFound)
		}
		doc = t.Doc
	default:
		return Doc{}, fmt.Errorf("documentation index %d: %w", index, ErrElementNotFound)
	}
	return selectDoc(doc, want), nil
}

func selectDoc(doc Doc, want DocField) Doc {
	var out Doc
	if want&DocName != 0 {
		out.Name = doc.Name
	}
	if want&DocString != 0 {
		out.String = doc.String
	}
	if want&DocHelpFile != 0 {
		out.HelpFile = doc.HelpFile
		out.HelpContext = doc.HelpContext
	}
	return out
}

func (l *memTypeLib) TypeInfoCount() int {
	return len(l.spec.Types)
}

func (l *memTypeLib) TypeInfo(index int) (TypeInfo, error) {
	if index < 0 || index >= len(l.spec.Types) || l.spec.Types[index].Broken {
		return nil, fmt.Errorf("type info %d: %w", index, ErrElementNotFound)
	}
	l.m.adjust(&l.m.refs, 1)
	return &memTypeInfo{lib: l, index: index}, nil
}

func (l *memTypeLib) AddRef() {
	l.m.adjust(&l.m.refs, 1)
}

func (l *memTypeLib) Release() {
	l.m.adjust(&l.m.refs, -1)
}

type memTypeInfo struct {
	lib   *memTypeLib
	index int
}

func (t *memTypeInfo) spec() *TypeSpec {
	return &t.lib.spec.Types[t.index]
}

func (t *memTypeInfo) ContainingTypeLib() (TypeLib, int, error) {
	if t.spec().Orphan {
		return nil, 0, fmt.Errorf("containing library of type %d: %w", t.index, ErrElementNotFound)
	}
	t.lib.AddRef()
	return t.lib, t.index, nil
}

func (t *memTypeInfo) RefTypeInfo(ref HRefType) (TypeInfo, error) {
	if ref == UnresolvedRef || int(ref) >= len(t.lib.spec.Types) {
		return nil, fmt.Errorf("reference %#x: %w", uint32(ref), ErrElementNotFound)
	}
	return t.lib.TypeInfo(int(ref))
}

func (t *memTypeInfo) TypeAttr() (*TypeAttr, error) {
	attr := t.spec().Attr
	t.lib.m.adjust(&t.lib.m.attrs, 1)
	return &attr, nil
}

func (t *memTypeInfo) ReleaseTypeAttr(attr *TypeAttr) {
	if attr != nil {
		t.lib.m.adjust(&t.lib.m.attrs, -1)
	}
}

func (t *memTypeInfo) Release() {
	t.lib.m.adjust(&t.lib.m.refs, -1)
}
