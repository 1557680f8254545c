// Package vernum parses and formats the version keys found in the type
// library catalog. Registry version strings are not guaranteed to be well
// formed, so parsing is tolerant: it never fails and only serves to order
// keys numerically.
package vernum
