//go:build !windows

package catalog

// System returns ErrUnsupported; only Windows hosts have a system catalog.
func System() (Catalog, error) {
	return nil, ErrUnsupported
}
