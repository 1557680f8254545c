// Package host defines the contract of the type library reflection
// subsystem: the per-thread session that keeps COM/OLE initialized, the
// library loader, and the ITypeLib/ITypeInfo style handles the rest of the
// module reads from.
//
// Two implementations are provided. OLE drives oleaut32 on Windows. Memory
// serves libraries described in a catalog snapshot and is what tests and
// non-Windows hosts use.
//
// A Session must be opened before any loader or reflection call and closed
// by the scope that opened it:
//
//	sess, err := h.Open()
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
package host
