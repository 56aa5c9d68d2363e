// Package project defines the TOML project manifest shared by the build
// tools and provides helpers to load, validate and save it.
//
// The manifest names the product, the target platform literals, the
// filesystem layout the packager stages from, and the resource-compiler
// inputs and outputs. The release version is deliberately absent: it is
// always queried from the built application itself.
package project
