// Package typelib wraps a loaded type library: its attributes, its
// documentation, and the types it declares. Attribute blocks are acquired
// and released inside each accessor and never cached.
package typelib
