// Package catalog provides read access to the system registration catalog:
// the TypeLib tree (GUID, version, locale, platform), the CLSID tree, and
// ProgID keys. Catalog hides the backing store behind a small key interface
// so resolution logic runs unchanged against the Windows registry or an
// in-memory tree built from a snapshot.
package catalog
