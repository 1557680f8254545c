package resolver

import (
	"strings"

	"github.com/tlbx-labs/tlbx/internal/catalog"
	"github.com/tlbx-labs/tlbx/internal/host"
	"github.com/tlbx-labs/tlbx/internal/tlberr"
	"go.uber.org/zap"
)

// serverKeys are the class registration sub-keys consulted, in order.
var serverKeys = []string{"InprocServer32", "LocalServer32"}

// ResolveByClass returns the file backing a class identifier, ProgID, or
// registered library name. Class registrations are consulted first; after
// that the TypeLib tree is scanned for a version whose display name equals
// identifier.
func (r *Resolver) ResolveByClass(identifier string) (string, error) {
	path, err := r.classServerPath(identifier)
	if err == nil {
		return path, nil
	}
	r.log.Debug("no class registration",
		zap.String("identifier", identifier),
		zap.Error(err))

	path, err = r.typeLibFileByName(identifier)
	if err != nil {
		return "", err
	}
	return path, nil
}

// classServerPath reads the server path registered for a CLSID, or for the
// CLSID a ProgID maps to, with %VAR% references expanded.
func (r *Resolver) classServerPath(identifier string) (string, error) {
	clsid, err := r.classID(identifier)
	if err != nil {
		return "", err
	}

	hclsid, err := r.cat.Open(catalog.Join(catalog.CLSIDRoot, clsid))
	if err != nil {
		return "", tlberr.NotFoundCause(identifier, err)
	}
	defer hclsid.Close()

	for _, server := range serverKeys {
		value, ok := serverValue(hclsid, server)
		if !ok || value == "" {
			continue
		}
		return serverPath(server, r.cat.ExpandEnv(value)), nil
	}
	return "", tlberr.NotFound(identifier, "class has no server registration")
}

// classID maps identifier to a braced CLSID key, following a ProgID's CLSID
// sub-key when identifier is not a GUID.
func (r *Resolver) classID(identifier string) (string, error) {
	if u, err := host.ParseGUID(identifier); err == nil {
		return host.FormatGUID(u), nil
	}

	hprog, err := r.cat.Open(catalog.Join(identifier, "CLSID"))
	if err != nil {
		return "", tlberr.NotFoundCause(identifier, err)
	}
	defer hprog.Close()

	value, err := hprog.DefaultValue()
	if err != nil {
		return "", tlberr.NotFoundCause(identifier, err)
	}
	u, err := host.ParseGUID(value)
	if err != nil {
		return "", tlberr.NotFoundCause(identifier, err)
	}
	return host.FormatGUID(u), nil
}

// serverValue reads a server registration either as the default value of a
// sub-key or as a named value on the class key.
func serverValue(hclsid catalog.Key, server string) (string, bool) {
	if sub, err := hclsid.OpenSubKey(server); err == nil {
		value, err := sub.DefaultValue()
		sub.Close()
		if err == nil {
			return value, true
		}
	}
	value, err := hclsid.Value(server)
	if err != nil {
		return "", false
	}
	return value, true
}

// serverPath strips quoting from a registered server path and, for local
// servers, the command-line switches that follow the executable.
func serverPath(server, cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if server != "LocalServer32" {
		return strings.Trim(cmd, `"`)
	}
	if strings.HasPrefix(cmd, `"`) {
		if end := strings.IndexByte(cmd[1:], '"'); end >= 0 {
			return cmd[1 : end+1]
		}
		return strings.Trim(cmd, `"`)
	}
	for _, sep := range []string{" /", " -"} {
		if i := strings.Index(cmd, sep); i >= 0 {
			cmd = cmd[:i]
		}
	}
	return cmd
}

// typeLibFileByName scans the TypeLib tree for a version whose display name
// is identifier and returns its registered file.
func (r *Resolver) typeLibFileByName(identifier string) (string, error) {
	root, err := r.cat.Open(catalog.TypeLibRoot)
	if err != nil {
		return "", tlberr.NotFoundCause(identifier, err)
	}
	defer root.Close()

	guids, err := root.SubKeys()
	if err != nil {
		return "", tlberr.NotFoundCause(identifier, err)
	}

	for _, guid := range guids {
		hguid, err := root.OpenSubKey(guid)
		if err != nil {
			continue
		}
		path, ok := fileForName(hguid, identifier)
		hguid.Close()
		if ok {
			return r.cat.ExpandEnv(path), nil
		}
	}
	return "", tlberr.NotFound(identifier, "no class or type library registration")
}

func fileForName(hguid catalog.Key, name string) (string, bool) {
	versions, err := hguid.SubKeys()
	if err != nil {
		return "", false
	}
	for _, version := range versions {
		hversion, err := hguid.OpenSubKey(version)
		if err != nil {
			continue
		}
		display, err := hversion.DefaultValue()
		if err != nil || display != name {
			hversion.Close()
			continue
		}
		path, _, ok := catalog.LocalePath(hversion)
		hversion.Close()
		if ok {
			return path, true
		}
	}
	return "", false
}
