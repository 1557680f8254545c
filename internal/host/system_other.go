//go:build !windows

package host

// System returns ErrUnsupported; oleaut32 only exists on Windows.
func System() (Host, error) {
	return nil, ErrUnsupported
}
