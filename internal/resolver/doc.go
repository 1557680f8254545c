// Package resolver locates type libraries through the registration catalog
// and loads them.
//
// Resolve tries an ordered list of strategies and returns the first library
// that loads:
//
//  1. a registered display name, any version, in catalog enumeration order
//  2. a library GUID, at the requested version or else the highest one
//  3. the identifier as a path handed straight to the loader
//
// Only the last strategy's failure is reported. When several GUIDs share a
// display name the first one enumerated wins; enumeration order belongs to
// the catalog and may differ between hosts.
package resolver
