package typelib

import (
	"fmt"

	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
)

// Documentation returns the documentation strings of ti, looked up through
// its containing library at ti's own index.
func Documentation(ti host.TypeInfo, want host.DocField) (host.Doc, error) {
	lib, index, err := ti.ContainingTypeLib()
	if err != nil {
		return host.Doc{}, tlberr.DocumentationUnavailable(-1, fmt.Errorf("containing library: %w", err))
	}
	defer lib.Release()

	doc, err := lib.Documentation(index, want)
	if err != nil {
		return host.Doc{}, tlberr.DocumentationUnavailable(index, err)
	}
	return doc, nil
}

// Name returns the documented name of ti, or "" when it cannot be found.
func Name(ti host.TypeInfo) string {
	doc, err := Documentation(ti, host.DocName)
	if err != nil {
		return ""
	}
	return doc.Name
}

// libraryDoc returns the documentation of the library itself.
func libraryDoc(lib host.TypeLib, want host.DocField) (host.Doc, error) {
	doc, err := lib.Documentation(host.MemberIDNil, want)
	if err != nil {
		return host.Doc{}, tlberr.DocumentationUnavailable(host.MemberIDNil, err)
	}
	return doc, nil
}
