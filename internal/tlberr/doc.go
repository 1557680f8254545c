// Package tlberr defines the error taxonomy for catalog resolution and type
// library inspection.
//
// Errors carry a Kind and the identifier or operation they concern:
//
//	err := tlberr.NotFound("Excel.Application", "no catalog entry")
//	if errors.Is(err, tlberr.ErrNotFound) { ... }
//
// Only NotFound and LoadFailed reach callers of the resolver. The other kinds
// are returned by individual accessors and are degraded to empty values where
// enumeration or decoding would otherwise fail.
package tlberr
