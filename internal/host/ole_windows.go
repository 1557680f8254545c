//go:build windows

package host

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"github.com/google/uuid"
	"github.com/zzl/go-com/com"
	"github.com/zzl/go-win32api/v2/win32"
)

// OLE is the oleaut32-backed host.
type OLE struct{}

// System returns the OLE host.
func System() (Host, error) {
	return OLE{}, nil
}

// Open initializes OLE on the calling goroutine's thread. The goroutine stays
// locked to that thread until the session is closed, so a session must be
// used and closed by the goroutine that opened it.
func (OLE) Open() (Session, error) {
	runtime.LockOSThread()
	if hr := win32.OleInitialize(nil); win32.FAILED(hr) {
		runtime.UnlockOSThread()
		return nil, hostError("OleInitialize", hr)
	}
	return &oleSession{}, nil
}

// oleError keeps the failing call and HRESULT and maps the codes the
// callers branch on onto the package errors.
type oleError struct {
	op  string
	hr  win32.HRESULT
	err error
}

func hostError(op string, hr win32.HRESULT) error {
	return &oleError{op: op, hr: hr, err: com.NewError(hr)}
}

func (e *oleError) Error() string {
	return fmt.Sprintf("%s: %v (HRESULT %#08x)", e.op, e.err, uint32(e.hr))
}

func (e *oleError) Unwrap() error { return e.err }

func (e *oleError) Is(target error) bool {
	switch target {
	case ErrElementNotFound:
		return e.hr == win32.TYPE_E_ELEMENTNOTFOUND
	case ErrLibNotRegistered:
		return e.hr == win32.TYPE_E_LIBNOTREGISTERED
	case ErrCantLoadLibrary:
		return e.hr == win32.TYPE_E_CANTLOADLIBRARY ||
			e.hr == win32.STG_E_FILENOTFOUND ||
			e.hr == win32.STG_E_PATHNOTFOUND
	}
	return false
}

func check(op string, hr win32.HRESULT) error {
	if win32.FAILED(hr) {
		return hostError(op, hr)
	}
	return nil
}

type oleSession struct {
	once sync.Once
	mu   sync.Mutex
	done bool
}

func (s *oleSession) closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *oleSession) LoadTypeLib(path string) (TypeLib, error) {
	if s.closed() {
		return nil, ErrSessionClosed
	}
	if strings.ContainsRune(path, 0) {
		return nil, fmt.Errorf("loading %s: %w", path, ErrCantLoadLibrary)
	}
	var p *win32.ITypeLib
	hr := win32.LoadTypeLibEx(win32.StrToPwstr(path), win32.REGKIND_NONE, &p)
	if err := check("LoadTypeLibEx", hr); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &oleTypeLib{p: p}, nil
}

func (s *oleSession) QueryPathOfRegTypeLib(guid uuid.UUID, major, minor uint16, lcid uint32) (string, error) {
	if s.closed() {
		return "", ErrSessionClosed
	}
	g := uuidToGUID(guid)
	var path com.BStr
	hr := win32.QueryPathOfRegTypeLib(&g, major, minor, lcid, path.PBSTR())
	if err := check("QueryPathOfRegTypeLib", hr); err != nil {
		return "", err
	}
	// The registered path may carry a trailing NUL inside the BSTR length.
	return strings.TrimRight(path.ToStringAndFree(), "\x00"), nil
}

func (s *oleSession) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
		win32.OleUninitialize()
		runtime.UnlockOSThread()
	})
	return nil
}

type oleTypeLib struct {
	p     *win32.ITypeLib
	mu    sync.Mutex
	attrs map[*LibAttr]*win32.TLIBATTR
}

func (l *oleTypeLib) LibAttr() (*LibAttr, error) {
	var raw *win32.TLIBATTR
	if err := check("ITypeLib.GetLibAttr", l.p.GetLibAttr(&raw)); err != nil {
		return nil, err
	}
	attr := &LibAttr{
		GUID:    guidToUUID(raw.Guid),
		LCID:    raw.Lcid,
		SysKind: SysKind(raw.Syskind),
		Major:   raw.WMajorVerNum,
		Minor:   raw.WMinorVerNum,
		Flags:   raw.WLibFlags,
	}
	l.mu.Lock()
	if l.attrs == nil {
		l.attrs = make(map[*LibAttr]*win32.TLIBATTR)
	}
	l.attrs[attr] = raw
	l.mu.Unlock()
	return attr, nil
}

func (l *oleTypeLib) ReleaseLibAttr(attr *LibAttr) {
	l.mu.Lock()
	raw, ok := l.attrs[attr]
	delete(l.attrs, attr)
	l.mu.Unlock()
	if ok {
		l.p.ReleaseTLibAttr(raw)
	}
}

func (l *oleTypeLib) Documentation(index int, want DocField) (Doc, error) {
	var name, docString, helpFile com.BStr
	var helpContext uint32

	var pName, pDoc, pFile *win32.BSTR
	if want&DocName != 0 {
		pName = name.PBSTR()
	}
	if want&DocString != 0 {
		pDoc = docString.PBSTR()
	}
	if want&DocHelpFile != 0 {
		pFile = helpFile.PBSTR()
	}

	hr := l.p.GetDocumentation(int32(index), pName, pDoc, &helpContext, pFile)
	if err := check("ITypeLib.GetDocumentation", hr); err != nil {
		return Doc{}, err
	}
	return Doc{
		Name:        name.ToStringAndFree(),
		String:      docString.ToStringAndFree(),
		HelpContext: helpContext,
		HelpFile:    helpFile.ToStringAndFree(),
	}, nil
}

func (l *oleTypeLib) TypeInfoCount() int {
	return int(l.p.GetTypeInfoCount())
}

func (l *oleTypeLib) TypeInfo(index int) (TypeInfo, error) {
	if index < 0 {
		return nil, fmt.Errorf("type info %d: %w", index, ErrElementNotFound)
	}
	var ti *win32.ITypeInfo
	if err := check("ITypeLib.GetTypeInfo", l.p.GetTypeInfo(uint32(index), &ti)); err != nil {
		return nil, err
	}
	return &oleTypeInfo{p: ti}, nil
}

func (l *oleTypeLib) AddRef() {
	l.p.AddRef()
}

func (l *oleTypeLib) Release() {
	l.p.Release()
}

type oleTypeInfo struct {
	p     *win32.ITypeInfo
	mu    sync.Mutex
	attrs map[*TypeAttr]*win32.TYPEATTR
}

func (t *oleTypeInfo) ContainingTypeLib() (TypeLib, int, error) {
	var lib *win32.ITypeLib
	var index uint32
	if err := check("ITypeInfo.GetContainingTypeLib", t.p.GetContainingTypeLib(&lib, &index)); err != nil {
		return nil, 0, err
	}
	if lib == nil {
		return nil, 0, fmt.Errorf("ITypeInfo.GetContainingTypeLib: %w", ErrElementNotFound)
	}
	return &oleTypeLib{p: lib}, int(index), nil
}

func (t *oleTypeInfo) RefTypeInfo(ref HRefType) (TypeInfo, error) {
	var ti *win32.ITypeInfo
	if err := check("ITypeInfo.GetRefTypeInfo", t.p.GetRefTypeInfo(uint32(ref), &ti)); err != nil {
		return nil, err
	}
	return &oleTypeInfo{p: ti}, nil
}

func (t *oleTypeInfo) TypeAttr() (*TypeAttr, error) {
	var raw *win32.TYPEATTR
	if err := check("ITypeInfo.GetTypeAttr", t.p.GetTypeAttr(&raw)); err != nil {
		return nil, err
	}
	attr := &TypeAttr{
		GUID:  guidToUUID(raw.Guid),
		Kind:  TypeKind(raw.Typekind),
		Major: raw.WMajorVerNum,
		Minor: raw.WMinorVerNum,
		Flags: raw.WTypeFlags,
	}
	if attr.Kind == KindAlias {
		attr.Alias = copyTypeDesc(&raw.TdescAlias)
	}
	t.mu.Lock()
	if t.attrs == nil {
		t.attrs = make(map[*TypeAttr]*win32.TYPEATTR)
	}
	t.attrs[attr] = raw
	t.mu.Unlock()
	return attr, nil
}

func (t *oleTypeInfo) ReleaseTypeAttr(attr *TypeAttr) {
	t.mu.Lock()
	raw, ok := t.attrs[attr]
	delete(t.attrs, attr)
	t.mu.Unlock()
	if ok {
		t.p.ReleaseTypeAttr(raw)
	}
}

func (t *oleTypeInfo) Release() {
	t.p.Release()
}

// copyTypeDesc deep-copies a host descriptor so it stays valid after the
// attribute block that owns it is released.
func copyTypeDesc(td *win32.TYPEDESC) *TypeDesc {
	out := &TypeDesc{VT: VarType(td.Vt)}
	switch out.VT {
	case VTPtr, VTSafeArray:
		if elem := td.LptdescVal(); elem != nil {
			out.Elem = copyTypeDesc(elem)
		}
	case VTCArray:
		if ad := td.LpadescVal(); ad != nil {
			out.Elem = copyTypeDesc(&ad.TdescElem)
			for _, b := range unsafe.Slice(&ad.Rgbounds[0], int(ad.CDims)) {
				out.Dims = append(out.Dims, ArrayBound{Elements: b.CElements, Lower: b.LLbound})
			}
		}
	case VTUserDefined:
		out.Ref = HRefType(td.HreftypeVal())
	}
	return out
}

func guidToUUID(g syscall.GUID) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:], g.Data4[:])
	return u
}

func uuidToGUID(u uuid.UUID) syscall.GUID {
	g := syscall.GUID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
	}
	copy(g.Data4[:], u[8:])
	return g
}
