//go:build windows

package catalog

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// Registry reads the host catalog under HKEY_CLASSES_ROOT.
type Registry struct{}

// System returns the host catalog.
func System() (Catalog, error) {
	return Registry{}, nil
}

// Open implements Catalog.
func (Registry) Open(path string) (Key, error) {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.READ)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, mapErr(err))
	}
	return &regKey{k: k, name: lastSegment(path)}, nil
}

// ExpandEnv implements Catalog.
func (Registry) ExpandEnv(s string) string {
	expanded, err := registry.ExpandString(s)
	if err != nil {
		return s
	}
	return expanded
}

type regKey struct {
	k    registry.Key
	name string
}

func (r *regKey) Name() string { return r.name }

func (r *regKey) SubKeys() ([]string, error) {
	names, err := r.k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", r.name, mapErr(err))
	}
	return names, nil
}

func (r *regKey) OpenSubKey(name string) (Key, error) {
	k, err := registry.OpenKey(r.k, name, registry.READ)
	if err != nil {
		return nil, fmt.Errorf("opening subkey %s of %s: %w", name, r.name, mapErr(err))
	}
	return &regKey{k: k, name: name}, nil
}

func (r *regKey) DefaultValue() (string, error) {
	return r.Value("")
}

func (r *regKey) Value(name string) (string, error) {
	v, _, err := r.k.GetStringValue(name)
	if err != nil {
		return "", fmt.Errorf("value %q of %s: %w", name, r.name, mapErr(err))
	}
	return v, nil
}

func (r *regKey) Close() error {
	return r.k.Close()
}

func mapErr(err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return ErrNotExist
	}
	return err
}

func lastSegment(path string) string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
