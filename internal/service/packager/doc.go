// Package packager produces the versioned release distributable.
//
// It queries the release version from the built application binary, stages
// the build output with the license and readme under the display-name
// directory, compresses the staged tree into a deterministic archive, and
// writes a checksum manifest next to it. A marker file guards against
// concurrent packaging runs.
//
// The distributable is a zip archive rather than the 7z container earlier
// releases shipped: no maintained Go library writes 7z (the existing ones
// are read-only), and zip gives the same reproducibility guarantees with
// maximum-level deflate.
package packager
