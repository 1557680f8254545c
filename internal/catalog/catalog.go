package catalog

import (
	"errors"
	"strings"
)

// Well-known top-level keys under the classes root.
const (
	TypeLibRoot = "TypeLib"
	CLSIDRoot   = "CLSID"
)

var (
	// ErrNotExist is returned when a key or value is absent.
	ErrNotExist = errors.New("catalog: key or value does not exist")

	// ErrUnsupported is returned when the host catalog is unavailable on
	// this platform.
	ErrUnsupported = errors.New("catalog: host catalog not supported on this platform")
)

// PlatformOrder is the order in which platform sub-keys are tried when
// looking up a registered library file. It reflects host preference for
// native 64-bit images, not correctness.
var PlatformOrder = []string{"win64", "win32", "win16"}

// Key is an open catalog key.
type Key interface {
	// Name returns the last path segment of the key.
	Name() string
	// SubKeys enumerates child key names in catalog order.
	SubKeys() ([]string, error)
	// OpenSubKey opens a direct child. It returns ErrNotExist on a miss.
	OpenSubKey(name string) (Key, error)
	// DefaultValue returns the unnamed value of the key.
	DefaultValue() (string, error)
	// Value returns a named string value.
	Value(name string) (string, error)
	Close() error
}

// Catalog opens keys relative to the classes root.
type Catalog interface {
	// Open opens a backslash separated path such as `TypeLib\{guid}`.
	Open(path string) (Key, error)
	// ExpandEnv replaces %VAR% references using the catalog's environment.
	ExpandEnv(s string) string
}

// Join joins path segments with the catalog separator.
func Join(parts ...string) string {
	return strings.Join(parts, `\`)
}

// PlatformPath returns the default value of the first platform sub-key of k
// present in PlatformOrder order.
func PlatformPath(k Key) (string, bool) {
	for _, platform := range PlatformOrder {
		sub, err := k.OpenSubKey(platform)
		if err != nil {
			continue
		}
		path, err := sub.DefaultValue()
		sub.Close()
		if err == nil {
			return path, true
		}
	}
	return "", false
}

// LocalePath scans the locale sub-keys of a version key and returns the first
// registered platform path together with the locale key it was found under.
func LocalePath(version Key) (path, locale string, ok bool) {
	locales, err := version.SubKeys()
	if err != nil {
		return "", "", false
	}
	for _, lcid := range locales {
		hlcid, err := version.OpenSubKey(lcid)
		if err != nil {
			continue
		}
		path, ok := PlatformPath(hlcid)
		hlcid.Close()
		if ok {
			return path, lcid, true
		}
	}
	return "", "", false
}

// expandPercent expands Windows style %NAME% references. Unknown names and
// unterminated references are left untouched, as the host does.
func expandPercent(s string, lookup func(string) (string, bool)) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			b.WriteString(s)
			break
		}
		end += start + 1

		b.WriteString(s[:start])
		name := s[start+1 : end]
		if v, ok := lookup(name); ok && name != "" {
			b.WriteString(v)
			s = s[end+1:]
			continue
		}
		// Keep the opening '%' and retry from the closing one, which may
		// start a valid reference.
		b.WriteString(s[start:end])
		s = s[end:]
	}
	return b.String()
}
