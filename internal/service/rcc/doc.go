// Package rcc implements the resource compiler.
//
// It translates declarative UI-definition files (*.ui.yaml, one per
// top-level window) and a resource-collection manifest into generated Go
// modules the application layer imports directly: one window module per
// definition plus one registry module embedding the zstd-compressed
// resource payloads. Generation is all-or-nothing so consumers never see a
// half-regenerated module set.
package rcc
