package host

// VarType is the tag of a type descriptor. Values are the host's numeric
// variant type codes.
type VarType uint16

const (
	VTEmpty       VarType = 0
	VTNull        VarType = 1
	VTI2          VarType = 2
	VTI4          VarType = 3
	VTR4          VarType = 4
	VTR8          VarType = 5
	VTCY          VarType = 6
	VTDate        VarType = 7
	VTBStr        VarType = 8
	VTDispatch    VarType = 9
	VTError       VarType = 10
	VTBool        VarType = 11
	VTVariant     VarType = 12
	VTUnknown     VarType = 13
	VTDecimal     VarType = 14
	VTI1          VarType = 16
	VTUI1         VarType = 17
	VTUI2         VarType = 18
	VTUI4         VarType = 19
	VTI8          VarType = 20
	VTUI8         VarType = 21
	VTInt         VarType = 22
	VTUInt        VarType = 23
	VTVoid        VarType = 24
	VTHResult     VarType = 25
	VTPtr         VarType = 26
	VTSafeArray   VarType = 27
	VTCArray      VarType = 28
	VTUserDefined VarType = 29
	VTLPStr       VarType = 30
	VTLPWStr      VarType = 31
	VTRecord      VarType = 36
)

// HRefType is an opaque handle to a type referenced from another type's
// descriptors. It is only meaningful to the TypeInfo that produced it.
type HRefType uint32

// ArrayBound is one dimension of a fixed-size array.
type ArrayBound struct {
	Elements uint32
	Lower    int32
}

// TypeDesc describes the type of a field, parameter, return value or alias.
// PTR, SAFEARRAY and CARRAY carry their element in Elem, CARRAY also carries
// Dims, and USERDEFINED carries Ref.
type TypeDesc struct {
	VT   VarType
	Elem *TypeDesc
	Dims []ArrayBound
	Ref  HRefType
}

// Ptr returns a PTR descriptor to elem.
func Ptr(elem *TypeDesc) *TypeDesc {
	return &TypeDesc{VT: VTPtr, Elem: elem}
}

// SafeArray returns a SAFEARRAY descriptor of elem.
func SafeArray(elem *TypeDesc) *TypeDesc {
	return &TypeDesc{VT: VTSafeArray, Elem: elem}
}

// UserDefined returns a USERDEFINED descriptor referencing ref.
func UserDefined(ref HRefType) *TypeDesc {
	return &TypeDesc{VT: VTUserDefined, Ref: ref}
}

// Simple returns a leaf descriptor with tag vt.
func Simple(vt VarType) *TypeDesc {
	return &TypeDesc{VT: vt}
}
