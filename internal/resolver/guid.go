package resolver

import (
	"github.com/google/uuid"
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
	"github.com/tlbx-labs/tlbx/internal/typelib"
	"github.com/tlbx-labs/tlbx/internal/vernum"
)

// ResolveByGUIDVersion loads the library registered under guid at exactly
// major.minor.
func (r *Resolver) ResolveByGUIDVersion(guid uuid.UUID, major, minor uint16) (*typelib.Library, error) {
	return r.loadGUIDVersion(host.FormatGUID(guid), vernum.RegKey(major, minor))
}

// LibraryPath returns the file registered for a GUID key and version key.
// Locale sub-keys are tried in catalog order and, within each, platforms in
// catalog.PlatformOrder order.
func (r *Resolver) LibraryPath(guid, version string) (string, error) {
	id := guid + " " + version
	hversion, err := r.cat.Open(catalog.Join(catalog.TypeLibRoot, guid, version))
	if err != nil {
		return "", tlberr.NotFoundCause(id, err)
	}
	defer hversion.Close()

	path, _, ok := catalog.LocalePath(hversion)
	if !ok {
		return "", tlberr.NotFound(id, "no file registered for any platform")
	}
	return r.cat.ExpandEnv(path), nil
}

func (r *Resolver) loadGUIDVersion(guid, version string) (*typelib.Library, error) {
	path, err := r.LibraryPath(guid, version)
	if err != nil {
		return nil, err
	}
	lib, err := r.sess.LoadTypeLib(path)
	if err != nil {
		return nil, tlberr.NotFoundCause(guid+" "+version, tlberr.LoadFailed(path, err))
	}
	return typelib.Open(r.sess, lib), nil
}
