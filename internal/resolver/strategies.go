package resolver

import (
	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
	"github.com/tlbx-labs/tlbx/internal/typelib"
	"github.com/tlbx-labs/tlbx/internal/vernum"
	"go.uber.org/zap"
)

// byName loads the first version entry, across all GUIDs, whose registered
// display name equals the identifier.
func (r *Resolver) byName(req request) (*typelib.Library, error) {
	root, err := r.cat.Open(catalog.TypeLibRoot)
	if err != nil {
		return nil, tlberr.NotFoundCause(req.identifier, err)
	}
	defer root.Close()

	guids, err := root.SubKeys()
	if err != nil {
		return nil, tlberr.NotFoundCause(req.identifier, err)
	}

	for _, guid := range guids {
		hguid, err := root.OpenSubKey(guid)
		if err != nil {
			continue
		}
		versions := versionsNamed(hguid, req.identifier)
		hguid.Close()

		for _, version := range versions {
			lib, err := r.loadGUIDVersion(guid, version)
			if err != nil {
				r.log.Debug("registered library did not load",
					zap.String("guid", guid),
					zap.String("version", version),
					zap.Error(err))
				continue
			}
			return lib, nil
		}
	}
	return nil, tlberr.NotFound(req.identifier, "no library registered under that name")
}

// versionsNamed returns the version keys of hguid whose display name is
// name, in enumeration order.
func versionsNamed(hguid catalog.Key, name string) []string {
	versions, err := hguid.SubKeys()
	if err != nil {
		return nil
	}
	var named []string
	for _, version := range versions {
		hversion, err := hguid.OpenSubKey(version)
		if err != nil {
			continue
		}
		display, err := hversion.DefaultValue()
		hversion.Close()
		if err == nil && display == name {
			named = append(named, version)
		}
	}
	return named
}

// byGUID treats the identifier as a library GUID. A version hint selects
// the exact key; without one the numerically highest version wins, ties
// going to the first seen.
func (r *Resolver) byGUID(req request) (*typelib.Library, error) {
	guid := req.identifier
	if u, err := host.ParseGUID(guid); err == nil {
		guid = host.FormatGUID(u)
	}

	hguid, err := r.cat.Open(catalog.Join(catalog.TypeLibRoot, guid))
	if err != nil {
		return nil, tlberr.NotFoundCause(req.identifier, err)
	}
	defer hguid.Close()

	var version string
	if key, ok := req.version.Key(); ok {
		hversion, err := hguid.OpenSubKey(key)
		if err != nil {
			return nil, tlberr.NotFound(req.identifier, "version "+key+" is not registered")
		}
		_, err = hversion.DefaultValue()
		hversion.Close()
		if err != nil {
			return nil, tlberr.NotFound(req.identifier, "version "+key+" has no display name")
		}
		version = key
	} else {
		var ok bool
		version, ok = highestVersion(hguid)
		if !ok {
			return nil, tlberr.NotFound(req.identifier, "no registered versions")
		}
	}

	return r.loadGUIDVersion(guid, version)
}

// highestVersion returns the numerically highest version key of hguid that
// carries a display name.
func highestVersion(hguid catalog.Key) (string, bool) {
	versions, err := hguid.SubKeys()
	if err != nil {
		return "", false
	}

	var (
		best  string
		found bool
	)
	for _, version := range versions {
		hversion, err := hguid.OpenSubKey(version)
		if err != nil {
			continue
		}
		_, err = hversion.DefaultValue()
		hversion.Close()
		if err != nil {
			continue
		}
		if !found || vernum.Greater(version, best) {
			best, found = version, true
		}
	}
	return best, found
}

// direct hands the identifier to the loader as a path.
func (r *Resolver) direct(req request) (*typelib.Library, error) {
	lib, err := r.sess.LoadTypeLib(req.identifier)
	if err != nil {
		return nil, tlberr.NotFoundCause(req.identifier, err)
	}
	return typelib.Open(r.sess, lib), nil
}
