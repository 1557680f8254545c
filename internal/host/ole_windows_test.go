//go:build windows

package host

import (
	"errors"
	"testing"

	"github.com/zzl/go-win32api/v2/win32"
)

const stdoleGUID = "{00020430-0000-0000-C000-000000000046}"

func TestHostErrorMapsHRESULTs(t *testing.T) {
	tests := []struct {
		hr   win32.HRESULT
		want error
	}{
		{win32.TYPE_E_ELEMENTNOTFOUND, ErrElementNotFound},
		{win32.TYPE_E_LIBNOTREGISTERED, ErrLibNotRegistered},
		{win32.TYPE_E_CANTLOADLIBRARY, ErrCantLoadLibrary},
		{win32.STG_E_FILENOTFOUND, ErrCantLoadLibrary},
		{win32.STG_E_PATHNOTFOUND, ErrCantLoadLibrary},
	}
	for _, tt := range tests {
		err := check("op", tt.hr)
		if !errors.Is(err, tt.want) {
			t.Errorf("check(%#x) = %v, want %v", uint32(tt.hr), err, tt.want)
		}
	}
	if err := check("op", win32.S_OK); err != nil {
		t.Errorf("check(S_OK) = %v", err)
	}
}

func TestGUIDConversionRoundTrip(t *testing.T) {
	u, err := ParseGUID(stdoleGUID)
	if err != nil {
		t.Fatal(err)
	}
	if got := guidToUUID(uuidToGUID(u)); got != u {
		t.Errorf("round trip = %s, want %s", FormatGUID(got), FormatGUID(u))
	}
}

func TestOLEHostLoadsStdole(t *testing.T) {
	sess, err := OLE{}.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close()

	guid, _ := ParseGUID(stdoleGUID)
	path, err := sess.QueryPathOfRegTypeLib(guid, 2, 0, 0)
	if err != nil {
		t.Fatalf("QueryPathOfRegTypeLib: %v", err)
	}

	lib, err := sess.LoadTypeLib(path)
	if err != nil {
		t.Fatalf("LoadTypeLib(%s): %v", path, err)
	}

	attr, err := lib.LibAttr()
	if err != nil {
		t.Fatalf("LibAttr: %v", err)
	}
	if attr.GUID != guid || attr.Major != 2 {
		t.Errorf("LibAttr = %s %d.%d", FormatGUID(attr.GUID), attr.Major, attr.Minor)
	}
	lib.ReleaseLibAttr(attr)

	doc, err := lib.Documentation(MemberIDNil, DocName|DocString)
	if err != nil {
		t.Fatalf("Documentation: %v", err)
	}
	if doc.Name != "stdole" {
		t.Errorf("Name = %q, want stdole", doc.Name)
	}

	if lib.TypeInfoCount() == 0 {
		t.Fatal("no types")
	}
	ti, err := lib.TypeInfo(0)
	if err != nil {
		t.Fatalf("TypeInfo: %v", err)
	}
	tattr, err := ti.TypeAttr()
	if err != nil {
		t.Fatalf("TypeAttr: %v", err)
	}
	ti.ReleaseTypeAttr(tattr)
	ti.Release()
	lib.Release()

	if _, err := sess.LoadTypeLib(`C:\definitely\not\here.tlb`); !errors.Is(err, ErrCantLoadLibrary) {
		t.Errorf("LoadTypeLib(missing) = %v, want ErrCantLoadLibrary", err)
	}

	sess.Close()
	if _, err := sess.LoadTypeLib(path); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("LoadTypeLib after Close = %v, want ErrSessionClosed", err)
	}
}
