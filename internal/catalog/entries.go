package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Entry is one registered library file in the TypeLib tree.
type Entry struct {
	GUID     string // key name, e.g. "{00020430-0000-0000-C000-000000000046}"
	Version  string // version key, e.g. "2.0"
	Name     string // display name registered on the version key
	Locale   string // locale key, e.g. "0" or "409"
	Platform string // platform key the path was read from
	Path     string // registered path, unexpanded
}

// SemVer interprets the hexadecimal major.minor version key as a semantic
// version for constraint matching.
func (e Entry) SemVer() (*semver.Version, error) {
	majorStr, minorStr, _ := strings.Cut(e.Version, ".")
	major, err := strconv.ParseUint(majorStr, 16, 16)
	if err != nil {
		return nil, fmt.Errorf("parsing major of version key %q: %w", e.Version, err)
	}
	var minor uint64
	if minorStr != "" {
		minor, err = strconv.ParseUint(minorStr, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("parsing minor of version key %q: %w", e.Version, err)
		}
	}
	return semver.New(major, minor, 0, "", ""), nil
}

// Entries flattens the TypeLib tree into registered files. Keys that cannot
// be opened are skipped; a version without any platform path still yields
// an entry with an empty Path so that registrations stay visible.
func Entries(c Catalog) ([]Entry, error) {
	root, err := c.Open(TypeLibRoot)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", TypeLibRoot, err)
	}
	defer root.Close()

	guids, err := root.SubKeys()
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", TypeLibRoot, err)
	}

	var entries []Entry
	for _, guid := range guids {
		hguid, err := root.OpenSubKey(guid)
		if err != nil {
			continue
		}
		entries = append(entries, guidEntries(hguid)...)
		hguid.Close()
	}
	return entries, nil
}

func guidEntries(hguid Key) []Entry {
	versions, err := hguid.SubKeys()
	if err != nil {
		return nil
	}

	var entries []Entry
	for _, version := range versions {
		hversion, err := hguid.OpenSubKey(version)
		if err != nil {
			continue
		}
		name, _ := hversion.DefaultValue()
		base := Entry{GUID: hguid.Name(), Version: version, Name: name}

		found := false
		locales, _ := hversion.SubKeys()
		for _, lcid := range locales {
			if !isLocaleKey(lcid) {
				continue
			}
			hlcid, err := hversion.OpenSubKey(lcid)
			if err != nil {
				continue
			}
			for _, platform := range PlatformOrder {
				hplat, err := hlcid.OpenSubKey(platform)
				if err != nil {
					continue
				}
				path, err := hplat.DefaultValue()
				hplat.Close()
				if err != nil {
					continue
				}
				e := base
				e.Locale = lcid
				e.Platform = platform
				e.Path = path
				entries = append(entries, e)
				found = true
			}
			hlcid.Close()
		}
		if !found {
			entries = append(entries, base)
		}
		hversion.Close()
	}
	return entries
}

// isLocaleKey reports whether name is a hexadecimal locale identifier, as
// opposed to sibling keys such as FLAGS or HELPDIR.
func isLocaleKey(name string) bool {
	_, err := strconv.ParseUint(name, 16, 32)
	return err == nil
}
