// Package version exposes build metadata for the toolkit and queries it
// from other binaries.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. Query executes
// another binary's `version` subcommand and parses the reported version,
// which is how the packager obtains the application release version.
package version
