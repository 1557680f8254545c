package snapshot

// Document is a complete catalog snapshot.
type Document struct {
	Environment map[string]string `yaml:"environment,omitempty" toml:"environment,omitempty" json:"environment,omitempty"`
	TypeLibs    []TypeLib         `yaml:"typelibs,omitempty" toml:"typelibs,omitempty" json:"typelibs,omitempty"`
	Classes     []Class           `yaml:"classes,omitempty" toml:"classes,omitempty" json:"classes,omitempty"`
	ProgIDs     []ProgID          `yaml:"progids,omitempty" toml:"progids,omitempty" json:"progids,omitempty"`
	Libraries   []Library         `yaml:"libraries,omitempty" toml:"libraries,omitempty" json:"libraries,omitempty"`
}

// TypeLib is the registration of one library GUID.
type TypeLib struct {
	GUID     string    `yaml:"guid" toml:"guid" json:"guid"`
	Versions []Version `yaml:"versions" toml:"versions" json:"versions"`
}

// Version is one version key of a TypeLib registration. An empty Name
// leaves the key without a display name.
type Version struct {
	Version string   `yaml:"version" toml:"version" json:"version"`
	Name    string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Flags   string   `yaml:"flags,omitempty" toml:"flags,omitempty" json:"flags,omitempty"`
	HelpDir string   `yaml:"helpdir,omitempty" toml:"helpdir,omitempty" json:"helpdir,omitempty"`
	Locales []Locale `yaml:"locales,omitempty" toml:"locales,omitempty" json:"locales,omitempty"`
}

// Locale holds the per-platform files registered under a locale key.
type Locale struct {
	LCID  string `yaml:"lcid" toml:"lcid" json:"lcid"`
	Win16 string `yaml:"win16,omitempty" toml:"win16,omitempty" json:"win16,omitempty"`
	Win32 string `yaml:"win32,omitempty" toml:"win32,omitempty" json:"win32,omitempty"`
	Win64 string `yaml:"win64,omitempty" toml:"win64,omitempty" json:"win64,omitempty"`
}

// Class is a CLSID registration. With AsValues the servers are written as
// named values on the class key instead of sub-keys.
type Class struct {
	CLSID        string `yaml:"clsid" toml:"clsid" json:"clsid"`
	Name         string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	InprocServer string `yaml:"inproc_server,omitempty" toml:"inproc_server,omitempty" json:"inproc_server,omitempty"`
	LocalServer  string `yaml:"local_server,omitempty" toml:"local_server,omitempty" json:"local_server,omitempty"`
	AsValues     bool   `yaml:"as_values,omitempty" toml:"as_values,omitempty" json:"as_values,omitempty"`
}

// ProgID maps a programmatic identifier to a CLSID.
type ProgID struct {
	ProgID string `yaml:"progid" toml:"progid" json:"progid"`
	CLSID  string `yaml:"clsid" toml:"clsid" json:"clsid"`
}

// Library is the content of one loadable library file.
type Library struct {
	Path     string `yaml:"path" toml:"path" json:"path"`
	GUID     string `yaml:"guid,omitempty" toml:"guid,omitempty" json:"guid,omitempty"`
	LCID     uint32 `yaml:"lcid,omitempty" toml:"lcid,omitempty" json:"lcid,omitempty"`
	SysKind  string `yaml:"syskind,omitempty" toml:"syskind,omitempty" json:"syskind,omitempty"`
	Major    uint16 `yaml:"major,omitempty" toml:"major,omitempty" json:"major,omitempty"`
	Minor    uint16 `yaml:"minor,omitempty" toml:"minor,omitempty" json:"minor,omitempty"`
	Flags    uint16 `yaml:"flags,omitempty" toml:"flags,omitempty" json:"flags,omitempty"`
	Name     string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Doc      string `yaml:"doc,omitempty" toml:"doc,omitempty" json:"doc,omitempty"`
	HelpFile string `yaml:"help_file,omitempty" toml:"help_file,omitempty" json:"help_file,omitempty"`
	Types    []Type `yaml:"types,omitempty" toml:"types,omitempty" json:"types,omitempty"`
}

// Type is one type declared in a Library.
type Type struct {
	Name         string    `yaml:"name" toml:"name" json:"name"`
	Doc          string    `yaml:"doc,omitempty" toml:"doc,omitempty" json:"doc,omitempty"`
	HelpFile     string    `yaml:"help_file,omitempty" toml:"help_file,omitempty" json:"help_file,omitempty"`
	Kind         string    `yaml:"kind" toml:"kind" json:"kind"`
	GUID         string    `yaml:"guid,omitempty" toml:"guid,omitempty" json:"guid,omitempty"`
	Major        uint16    `yaml:"major,omitempty" toml:"major,omitempty" json:"major,omitempty"`
	Minor        uint16    `yaml:"minor,omitempty" toml:"minor,omitempty" json:"minor,omitempty"`
	Flags        uint16    `yaml:"flags,omitempty" toml:"flags,omitempty" json:"flags,omitempty"`
	Alias        *TypeDesc `yaml:"alias,omitempty" toml:"alias,omitempty" json:"alias,omitempty"`
	Undocumented bool      `yaml:"undocumented,omitempty" toml:"undocumented,omitempty" json:"undocumented,omitempty"`
	Broken       bool      `yaml:"broken,omitempty" toml:"broken,omitempty" json:"broken,omitempty"`
	Orphan       bool      `yaml:"orphan,omitempty" toml:"orphan,omitempty" json:"orphan,omitempty"`
}

// TypeDesc is a type descriptor. VT names the tag by mnemonic; Code gives a
// raw numeric tag instead. Ref names the referenced type of a USERDEFINED
// descriptor within the same library.
type TypeDesc struct {
	VT   string    `yaml:"vt,omitempty" toml:"vt,omitempty" json:"vt,omitempty"`
	Code *int      `yaml:"code,omitempty" toml:"code,omitempty" json:"code,omitempty"`
	Elem *TypeDesc `yaml:"elem,omitempty" toml:"elem,omitempty" json:"elem,omitempty"`
	Ref  string    `yaml:"ref,omitempty" toml:"ref,omitempty" json:"ref,omitempty"`
	Dims []Bound   `yaml:"dims,omitempty" toml:"dims,omitempty" json:"dims,omitempty"`
}

// Bound is one dimension of a CARRAY descriptor.
type Bound struct {
	Elements uint32 `yaml:"elements" toml:"elements" json:"elements"`
	Lower    int32  `yaml:"lower,omitempty" toml:"lower,omitempty" json:"lower,omitempty"`
}
