// Package snapshot reads and writes catalog snapshots: documents that
// describe TypeLib, CLSID and ProgID registrations together with the
// contents of the library files they point at. A snapshot stands in for the
// host registry and loader wherever those are unavailable, and is validated
// against an embedded JSON schema before it is decoded.
package snapshot
