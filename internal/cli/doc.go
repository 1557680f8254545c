// Package cli defines the Cobra command tree for the tlbx CLI. Each file in
// this package registers one top-level command with the root command.
// Commands open an environment (a snapshot or the host registry and loader),
// delegate to the resolver and typelib packages, and only handle flag
// parsing and output formatting.
package cli
