package typedesc

import (
	"strconv"
	"strings"

	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/typelib"
)

var mnemonics = map[host.VarType]string{
	host.VTI2:          "I2",
	host.VTI4:          "I4",
	host.VTR4:          "R4",
	host.VTR8:          "R8",
	host.VTCY:          "CY",
	host.VTDate:        "DATE",
	host.VTBStr:        "BSTR",
	host.VTDispatch:    "DISPATCH",
	host.VTError:       "ERROR",
	host.VTBool:        "BOOL",
	host.VTVariant:     "VARIANT",
	host.VTUnknown:     "UNKNOWN",
	host.VTDecimal:     "DECIMAL",
	host.VTI1:          "I1",
	host.VTUI1:         "UI1",
	host.VTUI2:         "UI2",
	host.VTUI4:         "UI4",
	host.VTI8:          "I8",
	host.VTUI8:         "UI8",
	host.VTInt:         "INT",
	host.VTUInt:        "UINT",
	host.VTVoid:        "VOID",
	host.VTHResult:     "HRESULT",
	host.VTPtr:         "PTR",
	host.VTSafeArray:   "SAFEARRAY",
	host.VTCArray:      "CARRAY",
	host.VTUserDefined: "USERDEFINED",
	host.VTLPStr:       "LPSTR",
	host.VTLPWStr:      "LPWSTR",
	host.VTRecord:      "RECORD",
}

// Mnemonic returns the display mnemonic for vt, or "Unknown Type <n>".
func Mnemonic(vt host.VarType) string {
	if s, ok := mnemonics[vt]; ok {
		return s
	}
	return "Unknown Type " + strconv.Itoa(int(vt))
}

// Lookup returns the tag whose mnemonic is name.
func Lookup(name string) (host.VarType, bool) {
	for vt, s := range mnemonics {
		if s == name {
			return vt, true
		}
	}
	return 0, false
}

// Decode returns the leaf type name of td. owner is the type info the
// descriptor was read from; user-defined references are resolved through
// it. When chain is non-nil every mnemonic traversed is appended to it,
// outermost first, followed by the resolved user type name if any.
//
// PTR and SAFEARRAY contribute only to the chain: the returned string is
// the decoded element.
func Decode(owner host.TypeInfo, td *host.TypeDesc, chain *[]string) string {
	if td == nil {
		return ""
	}

	switch td.VT {
	case host.VTPtr, host.VTSafeArray:
		record(chain, Mnemonic(td.VT))
		return Decode(owner, td.Elem, chain)
	case host.VTUserDefined:
		s := Mnemonic(td.VT)
		record(chain, s)
		if name, ok := userTypeName(owner, td.Ref); ok {
			record(chain, name)
			return name
		}
		return s
	}

	s := Mnemonic(td.VT)
	record(chain, s)
	return s
}

// Signature decodes td and returns its full modifier chain joined by
// spaces, e.g. "PTR SAFEARRAY I4".
func Signature(owner host.TypeInfo, td *host.TypeDesc) string {
	var chain []string
	Decode(owner, td, &chain)
	return strings.Join(chain, " ")
}

func record(chain *[]string, s string) {
	if chain != nil {
		*chain = append(*chain, s)
	}
}

// userTypeName resolves ref through owner and returns the referenced type's
// documented name.
func userTypeName(owner host.TypeInfo, ref host.HRefType) (string, bool) {
	if owner == nil {
		return "", false
	}
	refInfo, err := owner.RefTypeInfo(ref)
	if err != nil {
		return "", false
	}
	defer refInfo.Release()

	doc, err := typelib.Documentation(refInfo, host.DocName)
	if err != nil {
		return "", false
	}
	return doc.Name, true
}
