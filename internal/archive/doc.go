// Package archive writes deterministic zip archives for release artifacts.
//
// Two runs over identical input trees produce byte-identical archives:
// traversal order is lexical, file timestamps are zeroed, mode bits are
// normalized, and compression is maximum-level deflate.
package archive
